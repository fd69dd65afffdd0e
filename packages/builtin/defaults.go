package builtin

import "strings"

func (r *Registry) registerDefaults() {
	defaults := []Function{
		// encoding
		{"base64", "base64(value)", "Base64-encode a value", funcBase64},
		{"base64decode", "base64decode(value)", "Decode standard or URL-safe base64", funcBase64Decode},
		{"urlencode", "urlencode(value)", "Percent-encode for use in a query string", funcURLEncode},
		{"urldecode", "urldecode(value)", "Decode a percent-encoded string", funcURLDecode},
		{"hex", "hex(value)", "Hex-encode a value", funcHex},
		{"unhex", "unhex(value)", "Decode a hex string", funcUnhex},
		{"htmlescape", "htmlescape(value)", "Escape HTML special characters", funcHTMLEscape},

		// hashing
		{"md5", "md5(value)", "MD5 digest in hex", hashFunc("md5")},
		{"sha1", "sha1(value)", "SHA-1 digest in hex", hashFunc("sha1")},
		{"sha256", "sha256(value)", "SHA-256 digest in hex", hashFunc("sha256")},
		{"sha512", "sha512(value)", "SHA-512 digest in hex", hashFunc("sha512")},
		{"hash", `hash(value, "sha256")`, "Digest with md5, sha1, sha256 or sha512", funcHash},

		// strings
		{"upper", "upper(value)", "Upper-case a value", stringFunc(strings.ToUpper)},
		{"lower", "lower(value)", "Lower-case a value", stringFunc(strings.ToLower)},
		{"title", "title(value)", "Title-case a value", funcTitle},
		{"trim", "trim(value[, cutset])", "Trim whitespace or the given characters", funcTrim},
		{"replace", "replace(value, old, new)", "Replace every occurrence of old", funcReplace},
		{"substr", "substr(value, start[, length])", "Substring by character position", funcSubstr},
		{"split", `split(value[, ","])`, "Split into a list", funcSplit},
		{"join", `join(list[, ","])`, "Join list elements", funcJoin},
		{"concat", "concat(a, b, ...)", "Concatenate values", funcConcat},
		{"length", "length(value)", "Length of a list, map or string", funcLength},
		{"default", "default(value, fallback)", "Fallback when the value is null or empty", funcDefault},
		{"regex", "regex(value, pattern[, group])", "First regular expression match", funcRegex},
		{"regexall", "regexall(value, pattern[, group])", "All regular expression matches", funcRegexAll},
		{"quote", "quote(value)", "Single-quote for a POSIX shell", stringFunc(ShellQuote)},
		{"lines", "lines(value)", "Split text into lines", funcLines},

		// structured data
		{"json", `json(value, "$.path")`, "Extract with a JSONPath expression", funcJSON},
		{"gjson", "gjson(value, path)", "Extract with a gjson path", funcGJSON},
		{"xpath", "xpath(value, path)", "Extract element text or /@attribute from XML", funcXPath},
		{"tojson", "tojson(value)", "Encode a value as JSON", funcToJSON},
		{"yaml", "yaml(value)", "Convert JSON data to YAML", funcYAML},
		{"jsonvalid", "jsonvalid(value, schema)", "Validate against an inline or file JSON schema", funcJSONValid},

		// generators
		{"uuid", "uuid()", "Random UUID v4", funcUUID},
		{"now", "now()", "Current UTC time in RFC 3339", funcNow},
		{"timestamp", "timestamp()", "Unix time in seconds", funcTimestamp},
		{"timestampms", "timestampms()", "Unix time in milliseconds", funcTimestampMs},
		{"date", `date("2006-01-02")`, "Current UTC date in a Go layout", funcDate},
		{"random", "random([min, max])", "Random integer, 0 to 100 by default", funcRandom},
		{"randomstring", "randomstring([length])", "Random alphanumeric string", funcRandomString},

		// system
		{"env", "env(name[, default])", "Variable from the .env file or the environment", r.env},
		{"tempfile", "tempfile(content[, suffix])", "Write content to a temp file and return its path", r.tempfile},
	}

	for _, fn := range defaults {
		r.funcs[fn.Name] = fn
	}
}

// Names returns the registered function names.
func (r *Registry) Names() []string {
	fns := r.Functions()
	names := make([]string, len(fns))
	for i, fn := range fns {
		names[i] = fn.Name
	}
	return names
}
