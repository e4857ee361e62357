package display

import (
	"encoding/json"
	"io"
	"os"

	"github.com/teranos/cgkit/errors"
)

// MarshalJSON renders v indented, or compact when CGKIT_OUTPUT=jsonl.
func MarshalJSON(v any) ([]byte, error) {
	if os.Getenv(OutputEnv) == "jsonl" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

// WriteJSON writes v followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "encode json")
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
