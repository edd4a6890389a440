package lead

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// seedFile is the on-disk layout of a lead seed file:
//
//	leads:
//	  - id: 1
//	    name: Bella Vista Restaurant
//	    ...
type seedFile struct {
	Leads []Lead `yaml:"leads"`
}

// LoadSeed reads leads from a YAML seed file. The leads are not validated
// here; NewStore does that when they are passed through WithSeed.
func LoadSeed(path string) ([]Lead, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "lead: read seed %s", path)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "lead: parse seed %s", path)
	}
	return f.Leads, nil
}
