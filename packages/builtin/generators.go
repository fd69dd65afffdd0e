package builtin

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/exchange"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
)

const (
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// MaxRandomStringLength bounds randomstring() so a template cannot ask
	// for an allocation the process cannot survive.
	MaxRandomStringLength = 1 << 20
)

func funcUUID(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 0, 0); err != nil {
		return nil, err
	}
	return value.String(uuid.New().String()), nil
}

func funcNow(_ []value.Value, _ *exchange.Context) (value.Value, error) {
	return value.String(time.Now().UTC().Format(time.RFC3339)), nil
}

func funcTimestamp(_ []value.Value, _ *exchange.Context) (value.Value, error) {
	return value.Int(time.Now().Unix()), nil
}

func funcTimestampMs(_ []value.Value, _ *exchange.Context) (value.Value, error) {
	return value.Int(time.Now().UnixMilli()), nil
}

func funcDate(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 0, 1); err != nil {
		return nil, err
	}
	return value.String(time.Now().UTC().Format(stringArgOr(args, 0, "2006-01-02"))), nil
}

// funcRandom returns an integer in [min, max], 0 to 100 by default.
func funcRandom(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 0, 2); err != nil {
		return nil, err
	}
	lo, err := intArg(args, 0, 0)
	if err != nil {
		return nil, err
	}
	hi, err := intArg(args, 1, 100)
	if err != nil {
		return nil, err
	}
	if hi < lo {
		return nil, argError("max %d is less than min %d", hi, lo)
	}
	// The span is computed unsigned so that ranges wider than MaxInt64 work.
	span := uint64(hi) - uint64(lo)
	if span == math.MaxUint64 {
		return value.Int(int64(rand.Uint64())), nil
	}
	return value.Int(lo + int64(rand.Uint64N(span+1))), nil
}

func funcRandomString(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 0, 1); err != nil {
		return nil, err
	}
	length, err := intArg(args, 0, 16)
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, argError("length must not be negative")
	}
	if length > MaxRandomStringLength {
		return nil, argError("length %d exceeds the maximum of %d", length, MaxRandomStringLength)
	}
	return value.String(randomString(int(length), alphanumeric)), nil
}

func randomString(length int, charset string) string {
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[rand.IntN(len(charset))]
	}
	return string(result)
}
