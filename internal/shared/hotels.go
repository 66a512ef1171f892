package shared

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"pms_dashboard/internal/domain"
)

// Hotels is the static hotel registry. It satisfies domain.HotelRegistry.
type Hotels struct {
	list   []domain.Hotel
	byCode map[string]domain.Hotel
}

type hotelsFile struct {
	Hotels []domain.Hotel `yaml:"hotels"`
}

// DefaultHotels is used when no HOTELS_FILE is configured. Only the default
// hotel code carries the configured auth code.
func DefaultHotels(c Config) []domain.Hotel {
	hs := []domain.Hotel{
		{ID: "1", Code: "102", Name: "Grand Plaza Hotel", Location: "Downtown"},
		{ID: "2", Code: "103", Name: "Seaside Resort", Location: "Beachfront"},
		{ID: "3", Code: "104", Name: "Mountain Lodge", Location: "Mountain View"},
	}
	for i := range hs {
		if hs[i].Code == c.HotelCode {
			hs[i].AuthCode = c.HotelAuthCode
		}
	}
	return hs
}

// LoadHotels reads the registry from c.HotelsFile (YAML with ${VAR}
// expansion), or falls back to DefaultHotels.
func LoadHotels(c Config) (*Hotels, error) {
	if c.HotelsFile == "" {
		return NewHotels(DefaultHotels(c))
	}
	b, err := os.ReadFile(c.HotelsFile)
	if err != nil {
		return nil, fmt.Errorf("read hotels file: %w", err)
	}
	var f hotelsFile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(b))), &f); err != nil {
		return nil, fmt.Errorf("parse hotels file: %w", err)
	}
	return NewHotels(f.Hotels)
}

func NewHotels(list []domain.Hotel) (*Hotels, error) {
	h := &Hotels{list: slices.Clone(list), byCode: make(map[string]domain.Hotel, len(list))}
	if err := h.Verify(); err != nil {
		return nil, err
	}
	for _, x := range h.list {
		h.byCode[x.Code] = x
	}
	return h, nil
}

// Verify checks the registry is non-empty with unique, non-blank codes.
func (h *Hotels) Verify() error {
	if len(h.list) == 0 {
		return fmt.Errorf("hotel registry is empty")
	}
	seen := map[string]bool{}
	for i, x := range h.list {
		code := strings.TrimSpace(x.Code)
		if code == "" {
			return fmt.Errorf("hotel #%d has no code", i)
		}
		if seen[code] {
			return fmt.Errorf("duplicate hotel code %q", code)
		}
		seen[code] = true
		if x.Name == "" {
			h.list[i].Name = code
		}
		h.list[i].Code = code
	}
	return nil
}

func (h *Hotels) Hotel(code string) (domain.Hotel, bool) {
	x, ok := h.byCode[strings.TrimSpace(code)]
	return x, ok
}

func (h *Hotels) Hotels() []domain.Hotel { return slices.Clone(h.list) }
