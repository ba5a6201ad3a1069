package cache

import (
	"fmt"
	"testing"

	"github.com/relink-dev/relink/internal/models"
)

func TestGetSet(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("abc1234"); ok {
		t.Error("hit on empty cache")
	}

	c.Set("abc1234", &models.Link{Code: "abc1234", TargetURL: "https://example.com"})
	link, ok := c.Get("abc1234")
	if !ok {
		t.Fatal("miss after Set")
	}
	if link.TargetURL != "https://example.com" {
		t.Errorf("target = %q", link.TargetURL)
	}
}

func TestEviction(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		code := fmt.Sprintf("code%03d", i)
		c.Set(code, &models.Link{Code: code})
	}

	if _, ok := c.Get("code000"); ok {
		t.Error("oldest entry survived past capacity")
	}
	if _, ok := c.Get("code002"); !ok {
		t.Error("newest entry evicted")
	}
}
