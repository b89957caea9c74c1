package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

const KindHistogram = "histogram"

var ErrMalformedRecord = errors.New("malformed record")

type Review struct {
	Rating   float64
	Body     string
	DateText string
	Kind     string
}

func (r Review) IsHistogram() bool {
	return r.Kind == KindHistogram
}

type ReviewRecord struct {
	Rating   Rating `json:"rating"`
	Body     string `json:"body"`
	DateText string `json:"dateText"`
	Type     any    `json:"type"`
}

func (rec *ReviewRecord) Review() Review {
	kind, _ := rec.Type.(string)
	return Review{
		Rating:   float64(rec.Rating),
		Body:     rec.Body,
		DateText: rec.DateText,
		Kind:     kind,
	}
}

// Rating accepts a JSON number, a numeric string or a boolean (1/0); null
// reads as 0.
type Rating float64

func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}

	switch {
	case bytes.Equal(data, []byte("true")):
		*r = 1
		return nil
	case bytes.Equal(data, []byte("false")):
		*r = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("rating %q is not numeric", s)
		}
		*r = Rating(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("rating %s is not numeric", string(data))
	}
	*r = Rating(v)
	return nil
}
