// Package config manages user-level settings stored at ~/.extinstall/config.yaml.
// Settings such as the runtime home, the editor home, the extension index
// location, and the download mirror can also be supplied as EXTINSTALL_*
// environment variables.
package config
