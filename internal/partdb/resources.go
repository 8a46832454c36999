package partdb

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// resourcesFS holds the packaged, zstd-compressed JSON resources —
// the read-only part catalog the codec needs at runtime. Regenerating
// these from the game's encrypted asset bundles is an explicit
// non-goal of this module; what ships here is a small, self-consistent
// fixture catalog sufficient to exercise every code path the item
// serial codec and mutation layer define.
//
// Grounded on the teacher's internal/data/player_template_loader.go,
// which embeds its XML templates the same way (embed.FS + ReadFile on
// first use); generalized from uncompressed XML to zstd-compressed
// JSON per spec section 6.
//
//go:embed resources/*.json.zst
var resourcesFS embed.FS

func loadResource(name string, out any) error {
	raw, err := resourcesFS.ReadFile("resources/" + name + ".json.zst")
	if err != nil {
		return fmt.Errorf("reading resource %s: %w", name, err)
	}
	dec, err := zstd.NewReader(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("opening zstd resource %s: %w", name, err)
	}
	defer dec.Close()

	if err := json.NewDecoder(dec).Decode(out); err != nil {
		return fmt.Errorf("decoding resource %s: %w", name, err)
	}
	return nil
}
