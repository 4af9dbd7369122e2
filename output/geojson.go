// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package output

import (
	"os"

	geojson "github.com/paulmach/go.geojson"
)

// StopLayer returns all stops as GeoJSON points, each carrying its id,
// code, name and the routes serving it
func StopLayer(ds *Dataset) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	routes := ds.StopRoutes()

	for _, s := range ds.Stops {
		f := geojson.NewPointFeature([]float64{s.Lon, s.Lat})
		f.ID = s.ID
		f.SetProperty("stop_id", s.ID)
		f.SetProperty("code", s.Code)
		f.SetProperty("name", s.Name)

		served := routes[s.ID]
		if served == nil {
			served = []int64{}
		}
		f.SetProperty("routes", served)

		fc.AddFeature(f)
	}

	return fc
}

// WriteStopLayer writes the stop layer of ds to path
func WriteStopLayer(path string, ds *Dataset) error {
	data, err := StopLayer(ds).MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
