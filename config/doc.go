// Package config provides layered configuration resolution for issuegate.
//
// Values are resolved with clear precedence:
//  1. Command-line flags (highest priority)
//  2. Environment variables
//  3. YAML config file (--config, or ~/.config/issuegate/config.yaml)
//  4. Built-in defaults (lowest priority)
//
// # Basic Usage
//
//	settings, err := config.Load(configFile, map[string]string{
//	    config.KeyListenAddr: listenFlag,
//	})
//	if err != nil {
//	    return err // startup refuses to run with an incomplete backend
//	}
//
// # Environment Variables
//
// Backend credentials read their conventional names (JIRA_HOST, JIRA_USER,
// JIRA_PASS, JIRA_TOKEN, GITHUB_TOKEN, GITLAB_TOKEN). Every other key reads
// ISSUEGATE_<KEY>:
//
//	ISSUEGATE_BACKEND=github
//	ISSUEGATE_TIMEOUT=5s
//
// # Config Sources
//
// Each resolved value tracks where it came from:
//   - "default": Built-in default value
//   - "file": YAML config file
//   - "env": Environment variable
//   - "flag": Command-line flag
package config
