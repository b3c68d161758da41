// Package config provides configuration loading for datedmemo.
//
// Configuration is layered. Later layers override earlier ones:
//
//  1. Defaults.
//  2. datedmemo.json or datedmemo.yaml in the working directory.
//  3. .env and .env.local files in the same directory.
//  4. DATEDMEMO_* environment variables.
//  5. Command-line flags (applied by the CLI).
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "port": 5000,
//	    "debug": true
//	  },
//	  "store": {
//	    "driver": "sqlite",
//	    "dsn": "memos.db",
//	    "migrate": true
//	  },
//	  "backup": {
//	    "bucket": "my-bucket",
//	    "prefix": "datedmemo",
//	    "region": "us-east-1"
//	  },
//	  "metrics": { "enabled": true },
//	  "log": { "format": "json" }
//	}
//
// # Environment
//
// Every field has a variable named after its section and field, for example
// DATEDMEMO_SERVER_PORT, DATEDMEMO_STORE_DSN or DATEDMEMO_LOG_LEVEL.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
