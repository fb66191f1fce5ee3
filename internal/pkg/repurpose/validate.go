package repurpose

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// platformRule describes what a platform's value must look like. Rules with
// a Fallback are soft: a bad value is replaced instead of failing the request.
type platformRule struct {
	List      bool
	MinLength int // characters for strings, items for lists
	Fallback  string
}

func (r platformRule) required() bool { return r.Fallback == "" }

var platformRules = map[string]platformRule{
	PlatformTwitter:   {List: true, MinLength: 1},
	PlatformLinkedin:  {MinLength: 10},
	PlatformEmail:     {MinLength: 10},
	PlatformInstagram: {MinLength: 10, Fallback: "Instagram caption generation failed."},
	PlatformFacebook:  {MinLength: 10, Fallback: "Facebook post generation failed."},
}

// Result holds the generated assets. Only requested platforms are set.
type Result struct {
	Platforms []string
	Twitter   []string
	Linkedin  *string
	Instagram *string
	Facebook  *string
	Email     *string
	// Fallbacks lists soft platforms whose model output was replaced.
	Fallbacks []string
}

// Map returns the requested platforms keyed by platform identifier.
func (r *Result) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(r.Platforms))
	for _, p := range r.Platforms {
		switch p {
		case PlatformTwitter:
			if r.Twitter != nil {
				out[p] = r.Twitter
			}
		default:
			if v := r.text(p); v != nil {
				out[p] = *v
			}
		}
	}
	return out
}

func (r *Result) text(platform string) *string {
	switch platform {
	case PlatformLinkedin:
		return r.Linkedin
	case PlatformInstagram:
		return r.Instagram
	case PlatformFacebook:
		return r.Facebook
	case PlatformEmail:
		return r.Email
	}
	return nil
}

func (r *Result) setText(platform, value string) {
	v := value
	switch platform {
	case PlatformLinkedin:
		r.Linkedin = &v
	case PlatformInstagram:
		r.Instagram = &v
	case PlatformFacebook:
		r.Facebook = &v
	case PlatformEmail:
		r.Email = &v
	}
}

// Validate applies platformRules to the requested platforms of obj.
func Validate(obj map[string]json.RawMessage, platforms []string) (*Result, error) {
	res := &Result{Platforms: platforms}

	for _, p := range platforms {
		rule, ok := platformRules[p]
		if !ok {
			return nil, &Error{Kind: KindValidationFailed, Platform: p, Err: ErrUnknownPlatform}
		}

		if rule.List {
			items, err := decodeList(obj[p], rule.MinLength)
			if err != nil {
				return nil, &Error{Kind: KindValidationFailed, Platform: p, Err: err}
			}
			res.Twitter = items
			continue
		}

		text, err := decodeText(obj[p], rule.MinLength)
		if err != nil {
			if rule.required() {
				return nil, &Error{Kind: KindValidationFailed, Platform: p, Err: err}
			}
			text = rule.Fallback
			res.Fallbacks = append(res.Fallbacks, p)
		}
		res.setText(p, text)
	}
	return res, nil
}

func decodeText(raw json.RawMessage, minLength int) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("missing")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.New("expected a string")
	}
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < minLength {
		return "", fmt.Errorf("shorter than %d characters", minLength)
	}
	return s, nil
}

func decodeList(raw json.RawMessage, minItems int) ([]string, error) {
	if len(raw) == 0 {
		return nil, errors.New("missing")
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.New("expected an array of strings")
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	if len(out) < minItems {
		return nil, fmt.Errorf("expected at least %d item(s)", minItems)
	}
	return out, nil
}
