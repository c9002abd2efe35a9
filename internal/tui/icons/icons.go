// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Provides consistent iconography across different terminal capabilities

package icons

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// Terminals that usually ship with a patched font
var nerdFontTerminals = []string{"iterm", "alacritty", "wezterm", "kitty", "ghostty"}

// nerdFonts decides from the environment whether glyphs from a patched
// font can be drawn. MYTHIC_NERD_FONTS wins over everything else.
func nerdFonts(getenv func(string) string) bool {
	if v := getenv("MYTHIC_NERD_FONTS"); v != "" {
		on, err := strconv.ParseBool(v)
		return err == nil && on
	}
	if getenv("NERD_FONTS") == "1" {
		return true
	}

	terminal := strings.ToLower(getenv("TERM_PROGRAM") + " " + getenv("TERM"))
	for _, t := range nerdFontTerminals {
		if strings.Contains(terminal, t) {
			return true
		}
	}
	return false
}

var detected = sync.OnceValue(func() bool { return nerdFonts(os.Getenv) })

// HasNerdFonts reports whether Nerd Font glyphs are used. The environment is
// read once per process.
func HasNerdFonts() bool {
	return detected()
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

// Icon definitions - Nerd Font codepoints with Unicode fallbacks
var (
	// Companion stats
	Health    = Icon{"󰣐", "♥"} // nf-md-heart
	Hunger    = Icon{"󰩰", "◒"} // nf-md-food_drumstick
	Energy    = Icon{"󱐋", "ϟ"} // nf-md-lightning_bolt
	Happiness = Icon{"󰱱", "☺"} // nf-md-emoticon_happy
	Hygiene   = Icon{"󰖌", "◌"} // nf-md-water
	Skill     = Icon{"󰓥", "✦"} // nf-md-sword
	Sick      = Icon{"󰋠", "✚"} // nf-md-hospital_box

	// Items
	Weapon     = Icon{"󰓥", "†"} // nf-md-sword
	Armor      = Icon{"󰒃", "⛊"} // nf-md-shield_check
	Cosmetic   = Icon{"󰙴", "✿"} // nf-md-hanger
	Consumable = Icon{"󰉚", "●"} // nf-md-food_apple

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	// Games
	Game   = Icon{"󰊴", "◆"} // nf-md-gamepad_variant
	Trophy = Icon{"󰔸", "★"} // nf-md-trophy
	Timer  = Icon{"󰔛", "◷"} // nf-md-timer
	Life   = Icon{"󰣐", "♥"} // nf-md-heart

	// Actions
	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Create  = Icon{"󰐕", "+"} // nf-md-plus
	Quit    = Icon{"󰗼", "×"} // nf-md-exit_to_app
	Logout  = Icon{"󰍃", "⏏"} // nf-md-logout

	// Application
	App     = Icon{"󰩃", "◈"} // nf-md-paw
	Profile = Icon{"󰀄", "☻"} // nf-md-account
)
