package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/squareup/rangeplan/catalog"
	"github.com/squareup/rangeplan/conf"
	"github.com/squareup/rangeplan/errors"
	"github.com/squareup/rangeplan/filter"
	plog "github.com/squareup/rangeplan/log"
	"github.com/squareup/rangeplan/metrics/prometheus"
	"github.com/squareup/rangeplan/planner"
	"muzzammil.xyz/jsonc"
)

type runner struct {
	out  io.Writer
	node *planner.ScanNode
}

func (r *runner) run(confFile string, tableFile string, keyIn []string, maxRangeLength *int64) error {
	cfg, err := loadConfig(confFile)
	if err != nil {
		return err
	}
	logConfig := plog.Config{Format: cfg.LogFormat, Level: cfg.LogLevel, File: cfg.LogFile}
	if logConfig.Format == "" {
		logConfig.Format = "text"
	}
	if err := logConfig.Configure(); err != nil {
		return err
	}

	tbl, err := loadTable(tableFile)
	if err != nil {
		return err
	}
	keyFilters, err := parseKeyFilters(tbl, keyIn)
	if err != nil {
		return err
	}

	r.node = planner.NewScanNode(tbl, keyFilters)
	if cfg.EnableMetrics {
		factory := prometheus.NewFactory(*cfg)
		if err := factory.Start(); err != nil {
			return err
		}
		planMetrics, err := planner.NewMetrics(factory)
		if err != nil {
			return err
		}
		r.node.SetMetrics(planMetrics)
	}
	if err := r.node.Finalize(); err != nil {
		return err
	}
	fmt.Fprint(r.out, r.node.ExplainString())

	maxLen := cfg.MaxScanRangeLength
	if maxRangeLength != nil {
		maxLen = *maxRangeLength
	}
	ranges, err := r.node.ScanRangeLocations(maxLen)
	if err != nil {
		return err
	}
	for _, srl := range ranges {
		locs := make([]string, len(srl.Locations))
		for i, loc := range srl.Locations {
			locs[i] = fmt.Sprintf("%s(%d)", loc.Address, loc.VolumeID)
		}
		fmt.Fprintf(r.out, "range partition=%d file=%s offset=%d length=%d locations=%s\n",
			srl.Range.PartitionID, srl.Range.Path, srl.Range.Offset, srl.Range.Length, strings.Join(locs, ","))
	}
	return nil
}

func loadConfig(confFile string) (*conf.Config, error) {
	cfg := conf.NewDefaultConfig()
	if confFile != "" {
		b, err := ioutil.ReadFile(confFile)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		// jsonc supports comments in JSON
		b = jsonc.ToJSON(b)
		if err := json.Unmarshal(b, cfg); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadTable(tableFile string) (*catalog.Table, error) {
	b, err := ioutil.ReadFile(tableFile)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	desc := &catalog.TableDescriptor{}
	if err := json.Unmarshal(jsonc.ToJSON(b), desc); err != nil {
		return nil, errors.WithStack(err)
	}
	return catalog.TableFromDescriptor(desc), nil
}

// parseKeyFilters builds one filter per clustering column from the --key-in flags. A missing
// flag or '*' accepts every value at that position.
func parseKeyFilters(tbl *catalog.Table, keyIn []string) ([]filter.KeyFilter, error) {
	if tbl.PartitionCount() == 0 {
		return nil, nil
	}
	if len(keyIn) > tbl.NumClusteringCols {
		return nil, errors.NewInvalidConfigurationError(fmt.Sprintf(
			"table %s has %d clustering columns but %d --key-in flags were given",
			tbl.FullName(), tbl.NumClusteringCols, len(keyIn)))
	}
	keyFilters := make([]filter.KeyFilter, tbl.NumClusteringCols)
	for i, arg := range keyIn {
		if arg == "*" || arg == "" {
			continue
		}
		var vals []int64
		for _, s := range strings.Split(arg, ",") {
			v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return nil, errors.NewInvalidConfigurationError(fmt.Sprintf("invalid --key-in value %q", s))
			}
			vals = append(vals, v)
		}
		keyFilters[i] = filter.NewInFilter(fmt.Sprintf("key%d", i), vals...)
	}
	return keyFilters, nil
}
