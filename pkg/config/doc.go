/*
Package config loads the replica identity and timing parameters the
quorum state manager needs at startup from a YAML file, decoded with
gopkg.in/yaml.v3 into tagged structs.

A typical file:

	local_id: 1
	local_directory_id: 5b9e8f2a-6b3d-4b8a-9e2f-1a2b3c4d5e6f
	data_dir: /var/lib/quorumstate/replica-1
	election_timeout_ms: 1000
	listeners:
	  CONTROLLER:
	    host: 10.0.0.1
	    port: 9093
	supported_version_range:
	  min: 0
	  max: 1

local_id is omitted entirely for an observer-only process.
*/
package config
