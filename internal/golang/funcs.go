package golang

import (
	"strconv"
	"strings"
	"text/template"

	"github.com/kolah/endpointgen/internal/signature"
)

func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"pascalCase":    PascalCase,
		"camelCase":     CamelCase,
		"snakeCase":     SnakeCase,
		"kebabCase":     KebabCase,
		"goName":        ToGoIdentifier,
		"argName":       ArgName,
		"escapeKeyword": EscapeKeyword,
		"goComment":     GoComment,
		"jsonTag":       fieldJSONTag,
		"queryTag":      fieldQueryTag,
		"statusConst":   StatusConst,
		"methodConst":   MethodConst,
		"generalizes":   Generalizes,
		"quote":         strconv.Quote,
		"lower":         strings.ToLower,
		"upper":         strings.ToUpper,
		"join":          strings.Join,
		"hasPrefix":     strings.HasPrefix,
		"dict":          Dict,
	}
}

func fieldJSONTag(name, typ string) string  { return JSONTag(name, IsOptional(typ)) }
func fieldQueryTag(name, typ string) string { return QueryTag(name, IsOptional(typ)) }

// ArgName is the Go parameter name for a snake_case catalog name.
func ArgName(s string) string {
	return EscapeKeyword(CamelCase(s))
}

// Generalizes reports whether a parameter of type typ is widened by the
// argument generalizer. Unparsable types report false.
func Generalizes(typ string) bool {
	expr, err := ParseType(typ)
	if err != nil {
		return false
	}
	return signature.Generalizes(expr)
}

// Dict creates a map from key-value pairs for use in templates.
func Dict(values ...any) map[string]any {
	if len(values)%2 != 0 {
		return nil
	}
	dict := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			continue
		}
		dict[key] = values[i+1]
	}
	return dict
}

func GoComment(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSpace(s), "\n")
	var result strings.Builder
	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}
		line = strings.TrimSpace(line)
		if line == "" {
			result.WriteString("//")
			continue
		}
		result.WriteString("// ")
		result.WriteString(line)
	}
	return result.String()
}

var methodConsts = map[string]string{
	"GET":    "http.MethodGet",
	"POST":   "http.MethodPost",
	"PUT":    "http.MethodPut",
	"PATCH":  "http.MethodPatch",
	"DELETE": "http.MethodDelete",
}

// MethodConst returns the net/http constant for an HTTP method.
func MethodConst(method string) string {
	if c, ok := methodConsts[strings.ToUpper(method)]; ok {
		return c
	}
	return strconv.Quote(method)
}

var statusConsts = map[int]string{
	100: "StatusContinue",
	101: "StatusSwitchingProtocols",
	200: "StatusOK",
	201: "StatusCreated",
	202: "StatusAccepted",
	203: "StatusNonAuthoritativeInfo",
	204: "StatusNoContent",
	205: "StatusResetContent",
	206: "StatusPartialContent",
	207: "StatusMultiStatus",
	300: "StatusMultipleChoices",
	301: "StatusMovedPermanently",
	302: "StatusFound",
	303: "StatusSeeOther",
	304: "StatusNotModified",
	307: "StatusTemporaryRedirect",
	308: "StatusPermanentRedirect",
	400: "StatusBadRequest",
	401: "StatusUnauthorized",
	402: "StatusPaymentRequired",
	403: "StatusForbidden",
	404: "StatusNotFound",
	405: "StatusMethodNotAllowed",
	406: "StatusNotAcceptable",
	408: "StatusRequestTimeout",
	409: "StatusConflict",
	410: "StatusGone",
	411: "StatusLengthRequired",
	412: "StatusPreconditionFailed",
	413: "StatusRequestEntityTooLarge",
	414: "StatusRequestURITooLong",
	415: "StatusUnsupportedMediaType",
	416: "StatusRequestedRangeNotSatisfiable",
	417: "StatusExpectationFailed",
	418: "StatusTeapot",
	421: "StatusMisdirectedRequest",
	422: "StatusUnprocessableEntity",
	423: "StatusLocked",
	424: "StatusFailedDependency",
	425: "StatusTooEarly",
	426: "StatusUpgradeRequired",
	428: "StatusPreconditionRequired",
	429: "StatusTooManyRequests",
	431: "StatusRequestHeaderFieldsTooLarge",
	451: "StatusUnavailableForLegalReasons",
	500: "StatusInternalServerError",
	501: "StatusNotImplemented",
	502: "StatusBadGateway",
	503: "StatusServiceUnavailable",
	504: "StatusGatewayTimeout",
	505: "StatusHTTPVersionNotSupported",
}

// StatusConst returns the net/http constant for a status code, or the
// number itself when net/http has no name for it.
func StatusConst(status int) string {
	if c, ok := statusConsts[status]; ok {
		return "http." + c
	}
	return strconv.Itoa(status)
}
