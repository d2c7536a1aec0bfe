package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"goldenapi/internal/template"
)

var knownKeySet = func() map[string]bool {
	set := make(map[string]bool, len(KnownKeys))
	for _, k := range KnownKeys {
		set[k] = true
	}
	return set
}()

// New validates a bag of named options and returns the normalized
// configuration. Unknown keys, wrongly typed values and a missing idSite or
// date are reported as *ConfigurationError.
func New(options map[string]interface{}) (*TestConfiguration, error) {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !knownKeySet[k] {
			return nil, &ConfigurationError{
				Key:         k,
				Message:     fmt.Sprintf("unknown test option '%s'", k),
				Suggestions: suggestKeys(k),
			}
		}
	}

	cfg := &TestConfiguration{
		Formats: append([]string(nil), DefaultFormats...),
		Periods: append([]string(nil), DefaultPeriods...),
	}

	var err error
	for _, k := range keys {
		v := options[k]
		switch k {
		case KeyIDSite:
			cfg.IDSite, err = asScalar(k, v)
		case KeyDate:
			cfg.Date, err = asScalar(k, v)
		case KeyPeriods:
			cfg.Periods, err = asStringList(k, v)
			if err == nil {
				err = validatePeriods(cfg.Periods)
			}
		case KeyFormat:
			cfg.Formats, err = asStringList(k, v)
			if err == nil {
				err = validateFormats(cfg.Formats)
			}
		case KeySetDateLastN:
			cfg.SetDateLastN, err = asLastN(k, v)
		case KeyLanguage:
			cfg.Language, err = asScalar(k, v)
		case KeySegment:
			cfg.Segment, err = asScalar(k, v)
		case KeyVisitorID:
			cfg.VisitorID, err = asScalar(k, v)
		case KeyAbandonedCarts:
			cfg.AbandonedCarts, err = asBool(k, v)
		case KeyIDGoal:
			if v != nil {
				var goal string
				goal, err = asScalar(k, v)
				cfg.IDGoal = NewGoalID(goal)
			}
		case KeyAPIModule:
			cfg.APIModule, err = asScalar(k, v)
		case KeyAPIAction:
			cfg.APIAction, err = asScalar(k, v)
		case KeyOtherRequestParameters:
			cfg.OtherRequestParameters, err = asStringMap(k, v)
		case KeySupertableAPI:
			cfg.SupertableAPI, err = asScalar(k, v)
			if err == nil && cfg.SupertableAPI != "" && !strings.Contains(cfg.SupertableAPI, ".") {
				err = newKeyError(k, "supertableApi must be of the form Module.method, got '%s'", cfg.SupertableAPI)
			}
		case KeyFileExtension:
			cfg.FileExtension, err = asScalar(k, v)
		case KeyAPINotToCall:
			cfg.APINotToCall, err = asStringList(k, v)
		case KeyDisableArchiving:
			cfg.DisableArchiving, err = asBool(k, v)
		case KeyTestSuffix:
			cfg.TestSuffix, err = asScalar(k, v)
		case KeyCompareAgainst:
			cfg.CompareAgainst, err = asScalar(k, v)
		case KeyXMLFieldsToRemove:
			cfg.XMLFieldsToRemove, err = asStringList(k, v)
		case KeyKeepLiveDates:
			cfg.KeepLiveDates, err = asBool(k, v)
		}
		if err != nil {
			return nil, err
		}
	}

	if cfg.IDSite == "" {
		return nil, newKeyError(KeyIDSite, "idSite is required")
	}
	if cfg.Date == "" {
		return nil, newKeyError(KeyDate, "date is required")
	}

	if len(cfg.OtherRequestParameters) > 0 {
		rendered, err := template.New().RenderMap(cfg.OtherRequestParameters, map[string]string{
			KeyIDSite: cfg.IDSite,
			KeyDate:   cfg.Date,
		})
		if err != nil {
			return nil, newKeyError(KeyOtherRequestParameters, "%v", err)
		}
		cfg.OtherRequestParameters = rendered
	}

	return cfg, nil
}

// MustNew is New for statically known options; it panics on error.
func MustNew(options map[string]interface{}) *TestConfiguration {
	cfg, err := New(options)
	if err != nil {
		panic(err)
	}
	return cfg
}

func validatePeriods(periods []string) error {
	if len(periods) == 0 {
		return newKeyError(KeyPeriods, "at least one period is required")
	}
	for _, p := range periods {
		if !ValidPeriods[p] {
			return &ConfigurationError{
				Key:         KeyPeriods,
				Message:     fmt.Sprintf("unknown period '%s'", p),
				Suggestions: []string{"Use one of: day, week, month, year, range"},
			}
		}
	}
	return nil
}

func validateFormats(formats []string) error {
	if len(formats) == 0 {
		return newKeyError(KeyFormat, "at least one format is required")
	}
	seen := make(map[string]bool, len(formats))
	for _, f := range formats {
		if f == "" {
			return newKeyError(KeyFormat, "format must not be empty")
		}
		if seen[f] {
			return newKeyError(KeyFormat, "format '%s' is listed twice", f)
		}
		seen[f] = true
	}
	return nil
}

func asScalar(key string, v interface{}) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format("2006-01-02"), nil
		}
		return t.Format("2006-01-02 15:04:05"), nil
	default:
		return "", newKeyError(key, "expected a scalar value, got %T", v)
	}
}

func asBool(key string, v interface{}) (bool, error) {
	switch t := v.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	case int:
		return t != 0, nil
	case string:
		b, err := strconv.ParseBool(t)
		if err != nil {
			return false, newKeyError(key, "expected a boolean, got '%s'", t)
		}
		return b, nil
	default:
		return false, newKeyError(key, "expected a boolean, got %T", v)
	}
}

// asLastN maps true to DefaultLastN, false to disabled, and a positive
// integer to itself.
func asLastN(key string, v interface{}) (int, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case bool:
		if t {
			return DefaultLastN, nil
		}
		return 0, nil
	case int:
		if t < 0 {
			return 0, newKeyError(key, "setDateLastN must not be negative, got %d", t)
		}
		return t, nil
	case string:
		n, err := strconv.Atoi(t)
		if err != nil || n < 0 {
			return 0, newKeyError(key, "setDateLastN must be a boolean or a positive integer, got '%s'", t)
		}
		return n, nil
	default:
		return 0, newKeyError(key, "setDateLastN must be a boolean or a positive integer, got %T", v)
	}
}

// asStringList accepts a scalar (a one-element list) or a list of scalars.
func asStringList(key string, v interface{}) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), t...), nil
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, err := asScalar(key, item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	default:
		s, err := asScalar(key, v)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
}

func asStringMap(key string, v interface{}) (map[string]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, val := range t {
			out[k] = val
		}
		return out, nil
	case map[string]interface{}:
		out := make(map[string]string, len(t))
		for k, val := range t {
			s, err := asScalar(key, val)
			if err != nil {
				return nil, err
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, newKeyError(key, "expected a mapping of parameter names to values, got %T", v)
	}
}

func suggestKeys(unknown string) []string {
	lower := strings.ToLower(unknown)
	var suggestions []string
	for _, k := range KnownKeys {
		if strings.ToLower(k) == lower || strings.HasPrefix(strings.ToLower(k), lower) {
			suggestions = append(suggestions, fmt.Sprintf("Did you mean '%s'?", k))
		}
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Known options: "+strings.Join(KnownKeys, ", "))
	}
	return suggestions
}
