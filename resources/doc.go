// Package resources embeds the default pivot definition file shipped with
// pivotkit.
package resources
