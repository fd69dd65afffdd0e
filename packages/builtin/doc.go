// Package builtin provides the function registry used by hitcmd expressions
// and the built-in functions it is populated with.
//
// Functions are called from a placeholder as name(args...), for example
// %sha256(request.body)% or %json(response.body, "$.data[0].id")%. Names are
// matched case-insensitively. Each handler receives evaluated arguments and
// the render context and returns a value or an error.
//
// Built-in groups:
//   - encoding: base64, base64decode, urlencode, urldecode, hex, unhex, htmlescape
//   - hashing: md5, sha1, sha256, sha512, hash
//   - strings: upper, lower, title, trim, replace, substr, split, join, concat,
//     length, default, regex, regexall, quote, lines
//   - structured data: json, gjson, xpath, tojson, yaml, jsonvalid
//   - generators: uuid, now, timestamp, timestampms, date, random, randomstring
//   - system: env, tempfile
package builtin
