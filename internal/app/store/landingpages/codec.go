// internal/app/store/landingpages/codec.go
package landingpagestore

import (
	"github.com/dalemusser/stratacourse/internal/domain/sections"
)

// EncodeSections serializes a section list to the text blob stored by every
// adapter. A nil list encodes as "[]".
func EncodeSections(list sections.List) (string, error) {
	body, err := list.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// DecodeSections parses a stored blob back into a section list.
func DecodeSections(blob string) (sections.List, error) {
	return sections.Parse([]byte(blob))
}
