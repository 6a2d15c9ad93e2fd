package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hxxtsxxh/lumos.ai/internal/heatmap"
)

// incidentRecord is the JSON shape accepted by the heatmap command.
type incidentRecord struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Type   string  `json:"type"`
	Date   string  `json:"date"`
	Source string  `json:"source"`
}

type poiRecord struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Type string  `json:"type"`
	Name string  `json:"name"`
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Build heatmap points around a center",
	Long: `Build weighted heatmap points from an incident file. Sparse results
are padded with synthetic points anchored on nearby POIs so the map
never renders empty.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("score"); err != nil {
			return err
		}
		lat, _ := cmd.Flags().GetFloat64("lat")
		lng, _ := cmd.Flags().GetFloat64("lng")
		incidentsPath, _ := cmd.Flags().GetString("incidents")
		poisPath, _ := cmd.Flags().GetString("pois")
		index, _ := cmd.Flags().GetInt("index")
		fill, _ := cmd.Flags().GetBool("fill")

		var incidents []heatmap.Incident
		if incidentsPath != "" {
			var records []incidentRecord
			if err := readJSONFile(incidentsPath, &records); err != nil {
				return err
			}
			incidents = make([]heatmap.Incident, len(records))
			for i, r := range records {
				incidents[i] = heatmap.Incident{
					Lat: r.Lat, Lng: r.Lng,
					Type: r.Type, Date: r.Date, Source: r.Source,
				}
			}
		}

		points := heatmap.BuildRadius(incidents, lat, lng, cfg.Heatmap.Radius)

		if fill {
			var pois []heatmap.POI
			if poisPath != "" {
				var records []poiRecord
				if err := readJSONFile(poisPath, &records); err != nil {
					return err
				}
				pois = make([]heatmap.POI, len(records))
				for i, r := range records {
					pois[i] = heatmap.POI{Lat: r.Lat, Lng: r.Lng, Type: r.Type, Name: r.Name}
				}
			}
			points = heatmap.FillSparse(points, lat, lng, index, pois, nil)
		}

		zap.L().Info("heatmap built",
			zap.Int("incidents", len(incidents)),
			zap.Int("points", len(points)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(points)
	},
}

func readJSONFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "heatmap: open %s", path)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return eris.Wrapf(err, "heatmap: decode %s", path)
	}
	return nil
}

func init() {
	heatmapCmd.Flags().Float64("lat", 0, "center latitude")
	heatmapCmd.Flags().Float64("lng", 0, "center longitude")
	heatmapCmd.Flags().String("incidents", "", "JSON file of incidents (lat, lng, type, date, source)")
	heatmapCmd.Flags().String("pois", "", "JSON file of POIs used to anchor synthetic fill")
	heatmapCmd.Flags().Int("index", 50, "safety index driving synthetic fill density")
	heatmapCmd.Flags().Bool("fill", false, "pad sparse output with synthetic points")
	rootCmd.AddCommand(heatmapCmd)
}
