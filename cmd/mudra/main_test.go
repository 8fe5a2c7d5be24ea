package main

import (
	"errors"
	"flag"
	"testing"

	"github.com/ayusman/mudra/internal/cursor"
)

func TestParseScreen(t *testing.T) {
	tests := []struct {
		in      string
		want    cursor.Size
		wantErr bool
	}{
		{"1920x1080", cursor.Size{Width: 1920, Height: 1080}, false},
		{"1366X768", cursor.Size{Width: 1366, Height: 768}, false},
		{" 800 x 600 ", cursor.Size{Width: 800, Height: 600}, false},
		{"1920", cursor.Size{}, true},
		{"axb", cursor.Size{}, true},
		{"0x1080", cursor.Size{}, true},
		{"1920x-1", cursor.Size{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseScreen(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseScreen(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseScreen(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-camera", "2", "-dry-run", "-screen", "1280x720", "-addr", ""})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if opts.camera != 2 || !opts.dryRun || opts.screen != "1280x720" || opts.addr != "" {
		t.Errorf("parseFlags() = %+v", opts)
	}
	if opts.tray || opts.journal != "" {
		t.Errorf("tray/journal should default off: %+v", opts)
	}

	defaults, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags(nil) error = %v", err)
	}
	if defaults.addr != "127.0.0.1:8765" {
		t.Errorf("default addr = %q", defaults.addr)
	}

	if _, err := parseFlags([]string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("parseFlags(-h) error = %v, want flag.ErrHelp", err)
	}
}
