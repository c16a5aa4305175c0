// Package router implements the route-rule matcher behind a group
// composition: rules are tried in registration order and the first one
// whose method and path template match wins. Unmatched requests resolve
// to strong.ErrNotFound so outer chains can fall through.
package router

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/kildevaeld/strong"

	"github.com/davgren/waltz/httpcontext"
)

// MethodAny matches every HTTP method.
const MethodAny = "*"

type segmentKind int

const (
	segmentLiteral segmentKind = iota
	segmentString
	segmentInt
)

type segment struct {
	kind  segmentKind
	value string // literal text or capture name
}

type rule struct {
	method   string
	segments []segment
	handler  httpcontext.HandlerFunc
}

// Router is an ordered list of immutable route rules. Registration is
// not safe for concurrent use; matching is, once registration is done.
type Router struct {
	rules []rule
}

func New() *Router {
	return &Router{}
}

// Handle registers a rule. Templates use ":name" for string captures
// and ":name:int" for captures that only match integer segments.
// Malformed templates panic; registration happens at startup.
func (r *Router) Handle(method, path string, handler httpcontext.HandlerFunc) {
	segments, err := parseTemplate(path)
	if err != nil {
		panic(err)
	}

	r.rules = append(r.rules, rule{
		method:   method,
		segments: segments,
		handler:  handler,
	})
}

// ServeHTTPContext dispatches to the first matching rule, binding any
// captured segments as params on the context.
func (r *Router) ServeHTTPContext(ctx *httpcontext.Context) error {
	req := ctx.Request()
	segments := splitPath(req.URL.Path)

	for i := range r.rules {
		rule := &r.rules[i]
		if rule.method != MethodAny && rule.method != req.Method {
			continue
		}
		params, ok := match(rule.segments, segments)
		if !ok {
			continue
		}
		ctx.SetParams(params)
		return rule.handler(ctx)
	}

	return strong.ErrNotFound
}

func parseTemplate(path string) ([]segment, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("route template must start with '/': %q", path)
	}

	raw := splitPath(path)
	segments := make([]segment, 0, len(raw))
	for _, s := range raw {
		if !strings.HasPrefix(s, ":") {
			segments = append(segments, segment{kind: segmentLiteral, value: s})
			continue
		}

		parts := strings.SplitN(s[1:], ":", 2)
		if parts[0] == "" {
			return nil, fmt.Errorf("unnamed capture in route template %q", path)
		}

		kind := segmentString
		if len(parts) == 2 {
			switch parts[1] {
			case "int":
				kind = segmentInt
			default:
				return nil, fmt.Errorf("unknown capture type %q in route template %q", parts[1], path)
			}
		}

		segments = append(segments, segment{kind: kind, value: parts[0]})
	}

	return segments, nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func match(template []segment, segments []string) (httpcontext.Params, bool) {
	if len(template) != len(segments) {
		return nil, false
	}

	var params httpcontext.Params
	for i, t := range template {
		s := segments[i]
		switch t.kind {
		case segmentLiteral:
			if t.value != s {
				return nil, false
			}
		case segmentInt:
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				return nil, false
			}
			params = append(params, httprouter.Param{Key: t.value, Value: s})
		case segmentString:
			if s == "" {
				return nil, false
			}
			params = append(params, httprouter.Param{Key: t.value, Value: s})
		}
	}

	return params, true
}
