package alsa

import (
	"fmt"
	"strings"
)

// DeviceInfo describes an ALSA capture PCM.
type DeviceInfo struct {
	Card       string
	CardNumber int
	Title      string
	Number     int
	Path       string
}

// Name is the ALSA hw identifier, for example "hw:1,0".
func (d DeviceInfo) Name() string {
	return fmt.Sprintf("hw:%d,%d", d.CardNumber, d.Number)
}

// matches reports whether filter selects d. An empty filter matches any
// device; otherwise filter is compared with the hw name and path, then
// case-insensitively against the card and device titles.
func (d DeviceInfo) matches(filter string) bool {
	if filter == "" {
		return true
	}
	if filter == d.Name() || filter == d.Path {
		return true
	}
	if strings.HasPrefix(filter, "hw:") || strings.HasPrefix(filter, "/") {
		return false
	}
	f := strings.ToLower(filter)
	return strings.Contains(strings.ToLower(d.Card), f) || strings.Contains(strings.ToLower(d.Title), f)
}
