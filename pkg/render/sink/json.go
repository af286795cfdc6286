package sink

import (
	"encoding/json"

	"github.com/matzehuels/bottleneck/pkg/diagram"
	"github.com/matzehuels/bottleneck/pkg/errors"
)

// RenderJSON writes the frame as indented JSON.
func RenderJSON(f diagram.Frame) ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "encode frame")
	}
	return append(data, '\n'), nil
}
