// SPDX-License-Identifier: MIT

// Package config loads the YAML settings of an lvquant run and validates
// them with struct tags. Missing keys keep the values of Default.
//
//	dirs:
//	  model_runs: /data/inputs/model-runs
//	  output: /data/outputs
//	matrices:
//	  - {trips: TObs_1.bin, costs: dis_roads_min.bin, km: dis_crowfly_KM.bin}
//	  - {trips: TObs_2.bin, costs: dis_bus_min.bin, km: dis_crowfly_KM.bin}
//	  - {trips: TObs_3.bin, costs: dis_gbrail_min.bin}
//	tables:
//	  zone_codes: EWS_ZoneCodes.csv
//	  constraints: GreenBeltConstraints.csv
//	model:
//	  use_constraints: true
//	  anchor: post-change
//	scenario:
//	  kind: onelink
//	  mode: rail
//	  radius_km: 10
//	  speed_kmh: 100
//	  count: 500
//
// A mode without a km file uses crowfly distances between the centroids of
// tables.zone_codes.
package config
