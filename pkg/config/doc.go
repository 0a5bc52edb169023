// Package config loads crawler settings from defaults, a YAML file, a .env
// file, EVERIA_* environment variables and command line flags, in that
// order of precedence.
//
// Usage:
//
// 1. Load configuration with all sources:
//
//     config, err := config.Load("", nil)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 2. Load with custom config file:
//
//     config, err := config.Load("/path/to/config.yaml", nil)
//
// 3. Load with command line flags:
//
//     flags := map[string]interface{}{
//         "output":    "./my-downloads",
//         "workers":   4,
//         "retry":     10,
//         "log-level": "debug",
//     }
//     config, err := config.Load("", flags)
//
// Example YAML configuration file (.everia.yaml):
//
//     download:
//       workers: 8
//       retry: 30
//       retry_delay: 0s
//       request_timeout: 5m
//     output:
//       base_directory: ./downloads
//     http:
//       user_agent: "Mozilla/5.0 ..."
//     logging:
//       level: info
//       file: ""
//
// Environment variables:
//
//     EVERIA_WORKERS, EVERIA_RETRY, EVERIA_REQUEST_TIMEOUT,
//     EVERIA_OUTPUT_DIR, EVERIA_USER_AGENT, EVERIA_LOG_LEVEL, EVERIA_LOG_FILE
package config
