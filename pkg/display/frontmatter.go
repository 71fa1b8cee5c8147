package display

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// splitFrontmatter separates an optional YAML block delimited by "---"
// lines from the markdown body.
func splitFrontmatter(content []byte) (map[string]any, string, error) {
	delimiter := []byte("---")
	meta := make(map[string]any)

	if !bytes.HasPrefix(content, delimiter) {
		return meta, string(content), nil
	}

	rest := bytes.TrimLeft(bytes.TrimPrefix(content, delimiter), "\r\n")
	end := bytes.Index(rest, delimiter)
	if end < 0 {
		return nil, "", errors.Join(ErrInvalidFrontmatter, errors.New("closing delimiter not found"))
	}

	if err := yaml.Unmarshal(rest[:end], &meta); err != nil {
		return nil, "", errors.Join(ErrInvalidFrontmatter, err)
	}
	if meta == nil {
		meta = make(map[string]any)
	}

	body := rest[end+len(delimiter):]
	body = bytes.TrimPrefix(body, []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))
	return meta, string(body), nil
}
