package builtin

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"hash"
	"html"
	"net/url"
	"strings"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/exchange"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
)

func funcBase64(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 1); err != nil {
		return nil, err
	}
	return value.String(base64.StdEncoding.EncodeToString([]byte(stringArg(args, 0)))), nil
}

// funcBase64Decode accepts standard and URL-safe input, padded or not.
func funcBase64Decode(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 1); err != nil {
		return nil, err
	}
	s := strings.TrimSpace(stringArg(args, 0))
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		if decoded, err := enc.DecodeString(s); err == nil {
			return value.String(decoded), nil
		}
	}
	return nil, argError("not valid base64: %q", s)
}

func funcURLEncode(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 1); err != nil {
		return nil, err
	}
	return value.String(url.QueryEscape(stringArg(args, 0))), nil
}

func funcURLDecode(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 1); err != nil {
		return nil, err
	}
	decoded, err := url.QueryUnescape(stringArg(args, 0))
	if err != nil {
		return nil, argError("%v", err)
	}
	return value.String(decoded), nil
}

func funcHex(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 1); err != nil {
		return nil, err
	}
	return value.String(hex.EncodeToString([]byte(stringArg(args, 0)))), nil
}

func funcUnhex(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 1); err != nil {
		return nil, err
	}
	decoded, err := hex.DecodeString(strings.TrimSpace(stringArg(args, 0)))
	if err != nil {
		return nil, argError("%v", err)
	}
	return value.String(decoded), nil
}

func funcHTMLEscape(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 1); err != nil {
		return nil, err
	}
	return value.String(html.EscapeString(stringArg(args, 0))), nil
}

var hashAlgorithms = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
}

func digest(algo, s string) (value.Value, error) {
	newHash, ok := hashAlgorithms[strings.ToLower(strings.ReplaceAll(algo, "-", ""))]
	if !ok {
		return nil, argError("unsupported hash algorithm %q", algo)
	}
	h := newHash()
	h.Write([]byte(s))
	return value.String(hex.EncodeToString(h.Sum(nil))), nil
}

func hashFunc(algo string) Func {
	return func(args []value.Value, _ *exchange.Context) (value.Value, error) {
		if err := expectArgs(args, 1, 1); err != nil {
			return nil, err
		}
		return digest(algo, stringArg(args, 0))
	}
}

// funcHash hashes its first argument with the named algorithm, sha256 by
// default.
func funcHash(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 2); err != nil {
		return nil, err
	}
	return digest(stringArgOr(args, 1, "sha256"), stringArg(args, 0))
}
