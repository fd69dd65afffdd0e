package builtin

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/abdul-hamid-achik/hitcmd/packages/core/exchange"
	"github.com/abdul-hamid-achik/hitcmd/packages/core/value"
)

func stringFunc(fn func(string) string) Func {
	return func(args []value.Value, _ *exchange.Context) (value.Value, error) {
		if err := expectArgs(args, 1, 1); err != nil {
			return nil, err
		}
		return value.String(fn(stringArg(args, 0))), nil
	}
}

func funcTitle(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 1); err != nil {
		return nil, err
	}
	return value.String(cases.Title(language.English).String(stringArg(args, 0))), nil
}

func funcTrim(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 2); err != nil {
		return nil, err
	}
	if len(args) == 2 {
		return value.String(strings.Trim(stringArg(args, 0), stringArg(args, 1))), nil
	}
	return value.String(strings.TrimSpace(stringArg(args, 0))), nil
}

func funcReplace(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 3, 3); err != nil {
		return nil, err
	}
	return value.String(strings.ReplaceAll(stringArg(args, 0), stringArg(args, 1), stringArg(args, 2))), nil
}

// funcSubstr slices by runes. Out-of-range bounds are clamped.
func funcSubstr(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 2, 3); err != nil {
		return nil, err
	}
	runes := []rune(stringArg(args, 0))
	start, err := intArg(args, 1, 0)
	if err != nil {
		return nil, err
	}
	length, err := intArg(args, 2, int64(len(runes)))
	if err != nil {
		return nil, err
	}

	n := int64(len(runes))
	if start < 0 {
		start = max(n+start, 0)
	}
	start = min(start, n)
	end := start + min(max(length, 0), n-start)
	return value.String(runes[start:end]), nil
}

func funcSplit(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 2); err != nil {
		return nil, err
	}
	return value.Strings(strings.Split(stringArg(args, 0), stringArgOr(args, 1, ","))), nil
}

// funcJoin joins the elements of a list. A scalar is returned as text.
func funcJoin(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 2); err != nil {
		return nil, err
	}
	sep := stringArgOr(args, 1, ",")
	list, ok := args[0].(value.List)
	if !ok {
		return value.String(stringArg(args, 0)), nil
	}
	parts := make([]string, len(list))
	for i, v := range list {
		parts[i] = value.Format(v)
	}
	return value.String(strings.Join(parts, sep)), nil
}

func funcConcat(args []value.Value, _ *exchange.Context) (value.Value, error) {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(value.Format(a))
	}
	return value.String(sb.String()), nil
}

// funcLength counts list elements, map entries or characters.
func funcLength(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 1); err != nil {
		return nil, err
	}
	switch v := args[0].(type) {
	case nil:
		return value.Int(0), nil
	case value.List:
		return value.Int(len(v)), nil
	case value.Map:
		return value.Int(len(v)), nil
	default:
		return value.Int(utf8.RuneCountInString(v.String())), nil
	}
}

// funcDefault returns the fallback when the value is null or empty.
func funcDefault(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 2, 2); err != nil {
		return nil, err
	}
	if args[0] == nil || value.Format(args[0]) == "" {
		return args[1], nil
	}
	return args[0], nil
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, argError("bad pattern: %v", err)
	}
	return re, nil
}

// matchGroup picks the requested group, or the first capture group when the
// pattern has one and no group was given.
func matchGroup(re *regexp.Regexp, args []value.Value) (int, error) {
	def := int64(0)
	if re.NumSubexp() > 0 {
		def = 1
	}
	group, err := intArg(args, 2, def)
	if err != nil {
		return 0, err
	}
	if group < 0 || int(group) > re.NumSubexp() {
		return 0, argError("group %d out of range", group)
	}
	return int(group), nil
}

// funcRegex returns the first match, or null when nothing matches.
func funcRegex(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 2, 3); err != nil {
		return nil, err
	}
	re, err := compilePattern(stringArg(args, 1))
	if err != nil {
		return nil, err
	}
	group, err := matchGroup(re, args)
	if err != nil {
		return nil, err
	}
	m := re.FindStringSubmatch(stringArg(args, 0))
	if m == nil {
		return nil, nil
	}
	return value.String(m[group]), nil
}

func funcRegexAll(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 2, 3); err != nil {
		return nil, err
	}
	re, err := compilePattern(stringArg(args, 1))
	if err != nil {
		return nil, err
	}
	group, err := matchGroup(re, args)
	if err != nil {
		return nil, err
	}
	out := value.List{}
	for _, m := range re.FindAllStringSubmatch(stringArg(args, 0), -1) {
		out = append(out, value.String(m[group]))
	}
	return out, nil
}

// ShellQuote wraps s in single quotes for a POSIX shell.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func funcLines(args []value.Value, _ *exchange.Context) (value.Value, error) {
	if err := expectArgs(args, 1, 1); err != nil {
		return nil, err
	}
	text := strings.TrimRight(strings.ReplaceAll(stringArg(args, 0), "\r\n", "\n"), "\n")
	if text == "" {
		return value.List{}, nil
	}
	return value.Strings(strings.Split(text, "\n")), nil
}
