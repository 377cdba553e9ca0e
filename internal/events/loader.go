package events

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// CatalogFile is the on-disk form of a catalog.
//
//	service: billing-service
//	produced:
//	  - name: OrderPlaced
//	    exchange: orders
//	    routing_key: order.placed
//	consumed:
//	  - name: UserCreated
//	    exchange: users
//	    routing_key: user.created
type CatalogFile struct {
	Service  string   `yaml:"service,omitempty"`
	Produced []Config `yaml:"produced"`
	Consumed []Config `yaml:"consumed"`
}

// LoadCatalog reads a YAML catalog file from fs. It returns the catalog and the
// service name recorded in the file, which may be empty. The catalog is not
// validated; call Validate on the result.
func LoadCatalog(fs afero.Fs, path string) (*Catalog, string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, "", &DescriptorError{
			Type:    ErrorCatalogUnreadable,
			Message: fmt.Sprintf("failed to read catalog %s", path),
			Cause:   err,
		}
	}

	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, "", &DescriptorError{
			Type:    ErrorCatalogUnreadable,
			Message: fmt.Sprintf("failed to parse catalog %s", path),
			Cause:   err,
		}
	}

	return NewCatalog(defineAll(file.Produced), defineAll(file.Consumed)), file.Service, nil
}

// MarshalCatalog renders a catalog in the format read by LoadCatalog.
func MarshalCatalog(c *Catalog, service string) ([]byte, error) {
	file := CatalogFile{
		Service:  service,
		Produced: configsOf(c.produced),
		Consumed: configsOf(c.consumed),
	}
	return yaml.Marshal(file)
}

func defineAll(configs []Config) []*Descriptor {
	descriptors := make([]*Descriptor, 0, len(configs))
	for _, cfg := range configs {
		descriptors = append(descriptors, Define(cfg))
	}
	return descriptors
}

func configsOf(list []*Descriptor) []Config {
	configs := make([]Config, 0, len(list))
	for _, d := range list {
		if d == nil {
			continue
		}
		configs = append(configs, d.Config())
	}
	return configs
}
