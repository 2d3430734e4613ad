package sniffer

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
)

var ErrNotDataURL = errors.New("not a data url")

type DataURL struct {
	MIME string
	Data []byte
}

func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// ParseDataURL decodes "data:[<mime>][;base64],<payload>" as produced by a
// browser FileReader.
func ParseDataURL(s string) (DataURL, error) {
	if !IsDataURL(s) {
		return DataURL{}, ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return DataURL{}, ErrNotDataURL
	}

	isBase64 := false
	mime := ""
	for i, part := range strings.Split(meta, ";") {
		switch {
		case i == 0:
			mime = strings.TrimSpace(part)
		case part == "base64":
			isBase64 = true
		}
	}
	if mime == "" {
		mime = "text/plain"
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return DataURL{}, err
		}
		return DataURL{MIME: mime, Data: data}, nil
	}

	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return DataURL{}, err
	}
	return DataURL{MIME: mime, Data: []byte(decoded)}, nil
}
