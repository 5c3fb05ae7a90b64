package main

import (
	"fmt"

	"github.com/pthm/hxtag"
	"github.com/pthm/hxtag/internal/config"
	"github.com/pthm/hxtag/internal/logging"
)

// buildTags turns configured entries into tags. Clickable entries announce
// activation; closeable entries remove themselves when dismissed.
func buildTags(entries []config.TagConfig, log *logging.Logger) ([]*hxtag.Tag, error) {
	tags := make([]*hxtag.Tag, 0, len(entries))
	for i, entry := range entries {
		props, err := entry.Props()
		if err != nil {
			return nil, fmt.Errorf("tags[%d]: %w", i, err)
		}

		label := entry.Label
		fields := log.WithFields(map[string]any{"tag": label})
		if entry.Clickable {
			props.OnClick = func(e *hxtag.Event) {
				fields.Debug("tag clicked")
				e.Trigger("tag:clicked", map[string]any{"label": label})
				e.Flash(hxtag.FlashSuccess, "Selected "+label)
			}
		}
		if entry.Closeable == nil || *entry.Closeable {
			props.OnActionClick = func(e *hxtag.Event) {
				fields.Debug("tag dismissed")
				e.Remove()
				e.Trigger("tag:dismissed", map[string]any{"label": label})
				e.Flash(hxtag.FlashInfo, "Removed "+label)
			}
		}
		tags = append(tags, hxtag.New(props))
	}
	return tags, nil
}
