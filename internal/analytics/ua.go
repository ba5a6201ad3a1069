package analytics

import "github.com/mssola/useragent"

// Summarize parses a raw user-agent string into a browser name, OS and
// device class. Used when presenting recent clicks; nothing derived here is
// persisted.
func Summarize(rawUA string) (browser, os, device string) {
	if rawUA == "" {
		return "", "", ""
	}
	ua := useragent.New(rawUA)
	browser, _ = ua.Browser()
	os = ua.OS()

	device = "desktop"
	if ua.Bot() {
		device = "bot"
	} else if ua.Mobile() {
		device = "mobile"
	}
	return browser, os, device
}
