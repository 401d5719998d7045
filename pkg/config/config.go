package config

import "strings"

// KebabToSnakeCase converts a cobra flag name into the key it is bound to in viper.
func KebabToSnakeCase(str string) string {
	return strings.ReplaceAll(str, "-", "_")
}

// NormalizeFlagName returns the viper key for a flag constant so values can be read back
// with viper.Get* after the flags have been bound.
func NormalizeFlagName(name string) string {
	return KebabToSnakeCase(strings.ToLower(name))
}
