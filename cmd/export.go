package main

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/hxxtsxxh/lumos.ai/internal/profile"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export profile summaries to an XLSX workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("score"); err != nil {
			return err
		}
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")

		f := xlsx.NewFile()
		if err := writeAgencySheet(f, snap); err != nil {
			return err
		}
		if err := writeRegionSheet(f, snap); err != nil {
			return err
		}
		if err := f.Save(out); err != nil {
			return eris.Wrapf(err, "export: save %s", out)
		}

		zap.L().Info("exported workbook",
			zap.String("path", out),
			zap.Int("agencies", snap.AgencyCount()),
			zap.Int("regions", snap.RegionCount()),
		)
		fmt.Printf("Wrote %s (%d agencies, %d regions)\n", out, snap.AgencyCount(), snap.RegionCount())
		return nil
	},
}

func writeAgencySheet(f *xlsx.File, snap *profile.Snapshot) error {
	sheet, err := f.AddSheet("Agencies")
	if err != nil {
		return eris.Wrap(err, "export: add agencies sheet")
	}

	addHeaderRow(sheet,
		"Key", "Name", "State", "County", "Population", "Years",
		"Incidents", "Part I Rate", "Violent Rate", "Property Rate",
		"Weapon Rate", "Stranger Rate", "Severity", "Officers/1000",
	)
	for _, key := range snap.AgencyKeys() {
		p, ok := snap.Agency(key)
		if !ok {
			continue
		}
		row := sheet.AddRow()
		row.AddCell().SetString(key)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.RegionCode)
		row.AddCell().SetString(p.County)
		row.AddCell().SetInt(p.Population)
		row.AddCell().SetInt(p.YearsObserved)
		row.AddCell().SetInt(p.TotalIncidents)
		row.AddCell().SetFloat(p.PartIRate)
		row.AddCell().SetFloat(p.ViolentRate)
		row.AddCell().SetFloat(p.PropertyRate)
		row.AddCell().SetFloat(p.WeaponRate)
		row.AddCell().SetFloat(p.StrangerRate)
		row.AddCell().SetFloat(p.SeverityScore)
		row.AddCell().SetFloat(p.OfficersPer1000)
	}
	return nil
}

func writeRegionSheet(f *xlsx.File, snap *profile.Snapshot) error {
	sheet, err := f.AddSheet("Regions")
	if err != nil {
		return eris.Wrap(err, "export: add regions sheet")
	}

	header := []string{"State", "Agencies", "Incidents", "Weapon Rate", "Stranger Rate"}
	for h := 0; h < 24; h++ {
		header = append(header, "H"+strconv.Itoa(h))
	}
	addHeaderRow(sheet, header...)

	for _, code := range snap.RegionCodes() {
		p, ok := snap.Region(code)
		if !ok {
			continue
		}
		row := sheet.AddRow()
		row.AddCell().SetString(code)
		row.AddCell().SetInt(p.AgencyCount)
		row.AddCell().SetInt(p.TotalIncidents)
		row.AddCell().SetFloat(p.WeaponRate)
		row.AddCell().SetFloat(p.StrangerRate)
		for h := 0; h < 24; h++ {
			if h < len(p.HourlyDist) {
				row.AddCell().SetFloat(p.HourlyDist[h])
			} else {
				row.AddCell().SetFloat(0)
			}
		}
	}
	return nil
}

func addHeaderRow(sheet *xlsx.Sheet, cols ...string) {
	row := sheet.AddRow()
	for _, c := range cols {
		row.AddCell().SetString(c)
	}
}

func init() {
	exportCmd.Flags().String("out", "profiles.xlsx", "output workbook path")
	rootCmd.AddCommand(exportCmd)
}
