package engine

import (
	"github.com/pkg/errors"

	"github.com/nathoo/fieldmed/engine/save"
)

// Save serializes the roster, RNG position and command log.
func (e *Engine) Save() ([]byte, error) {
	return save.Save(e.Roster, e.Defs, e.RNG.Seed(), e.RNG.Position(), e.CommandLog)
}

// Load restores a save made by the same campaign. The roster is left
// untouched when the save does not apply cleanly.
func (e *Engine) Load(data []byte) (*save.SaveData, error) {
	sd, err := save.Load(data)
	if err != nil {
		return nil, err
	}
	if sd.Campaign != e.Defs.Campaign.Title {
		return nil, errors.Errorf("save belongs to %q, not %q", sd.Campaign, e.Defs.Campaign.Title)
	}
	if err := save.ApplySave(e.Roster, e.Catalog, sd); err != nil {
		return nil, errors.Wrap(err, "applying save")
	}
	e.RestoreRNG(sd.RNGSeed, sd.RNGPosition)
	e.CommandLog = append([]string(nil), sd.CommandLog...)
	e.Logger.Info("save_loaded", "day", sd.Day, "rng_position", sd.RNGPosition)
	return sd, nil
}
