package template

// MergeContexts merges multiple variable sets into a single one.
// Later sets override values from earlier ones.
func MergeContexts(contexts ...map[string]string) map[string]string {
	result := make(map[string]string)

	for _, ctx := range contexts {
		for key, value := range ctx {
			result[key] = value
		}
	}

	return result
}
