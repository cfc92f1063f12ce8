// Package config defines the HCL run file of the tool and loads it.
//
// A run file names the folders to scan and the matching rule used to pick a
// connection file for each broken layer. Every attribute is optional; values
// left out fall back to command-line flags or built-in defaults. String values
// may reference environment variables through the "env" object:
//
//	connection_folders = ["${env.GIS_SHARE}/DatabaseConnections/PublicationDB"]
//
//	matching {
//	  pattern        = "A[0-9]{3}_"
//	  pattern_marker = "giscapdb_ReadOnly_PRD.sde"
//	  default_marker = "gispubdb_extdata_PROD.sde"
//	}
package config
