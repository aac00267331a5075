package language

import (
	"errors"
	"strings"
	"testing"
)

const (
	english = "The tide comes in twice a day because the moon pulls on the oceans, and the water " +
		"rises along every shore that faces it while the far side of the earth swells as well."
	french = "La marée monte deux fois par jour parce que la lune attire les océans, et l'eau " +
		"s'élève le long de chaque rivage qui lui fait face pendant que l'autre côté de la terre gonfle aussi."
)

func TestCheck(t *testing.T) {
	g := NewGuard(0.5)

	tests := []struct {
		name    string
		text    string
		english bool
		wantErr bool
	}{
		{"english", english, true, false},
		{"french", french, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := g.Check(tt.text, len(strings.Fields(tt.text)))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrNotEnglish) {
				t.Errorf("Check() error = %v, want ErrNotEnglish", err)
			}
			if info.English != tt.english {
				t.Errorf("English = %v, want %v (detected %q)", info.English, tt.english, info.Detected)
			}
			if info.Skipped {
				t.Error("Skipped = true for a long input")
			}
		})
	}
}

func TestCheck_ShortInputSkipped(t *testing.T) {
	info, err := NewGuard(0.5).Check("Bonjour tout le monde", 4)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !info.Skipped || !info.English {
		t.Errorf("Check() = %+v, want skipped", info)
	}
}

func TestCheck_HighThresholdOnlyWarns(t *testing.T) {
	info, err := NewGuard(1.01).Check(french, len(strings.Fields(french)))
	if err != nil {
		t.Fatalf("Check() error = %v, want none above any confidence", err)
	}
	if info.English {
		t.Errorf("English = true for French text")
	}
}
