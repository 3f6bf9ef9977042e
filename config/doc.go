// Package config loads per-application configuration files and validates
// their settings.
//
// Load reads a JSON or YAML file into a File; LoadApp resolves the
// conventional `<app>.config.json` name. Dict provides typed mandatory and
// optional accessors with range and membership constraints:
//
//	f, err := config.LoadApp("sensor-hub")
//	if err != nil {
//		log.Fatal(err)
//	}
//	d := f.Dict()
//	host, err := d.MandatoryString("host")
//	port := d.OptionalInt("port", 1883)
//
// Watch notifies on file changes via fsnotify, reloading the file for each
// notification.
package config
