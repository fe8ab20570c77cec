// Package config loads the service configuration from an optional YAML
// file and VECTORSHARD_ environment variables.
//
//	allocator:
//	  namespaces_per_index: 24999
//	  indexes_per_project: 20
//	qdrant:
//	  projects:
//	    - name: QA1
//	      endpoint: qdrant-1.internal
//	      api_key_env: QDRANT_QA1_KEY
//
// Environment variables win over the file; nested keys are separated by a
// double underscore:
//
//	VECTORSHARD_ALLOCATOR__INDEXES_PER_PROJECT=5
//	VECTORSHARD_DATABASE__MARIADB__CONNECTION__PASSWORD=secret
package config
