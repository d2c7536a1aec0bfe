package dispatch

import "context"

type contextKey int

const (
	languageKey contextKey = iota
	archivingDisabledKey
)

// WithLanguage returns a context carrying the response language.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, languageKey, lang)
}

// LanguageFrom returns the language carried by ctx, if any.
func LanguageFrom(ctx context.Context) (string, bool) {
	lang, ok := ctx.Value(languageKey).(string)
	return lang, ok && lang != ""
}

// WithArchivingDisabled returns a context carrying the archiving flag.
func WithArchivingDisabled(ctx context.Context, disabled bool) context.Context {
	return context.WithValue(ctx, archivingDisabledKey, disabled)
}

// ArchivingDisabled reports whether ctx asks the engine not to archive.
func ArchivingDisabled(ctx context.Context) bool {
	disabled, _ := ctx.Value(archivingDisabledKey).(bool)
	return disabled
}
