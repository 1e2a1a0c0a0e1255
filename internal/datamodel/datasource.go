package datamodel

import "github.com/felixgeelhaar/taskvault/internal/domain"

// DataSource records where a piece of data came from and the properties that
// describe its origin.
type DataSource struct {
	Type       domain.DataSourceType `json:"type"`
	Properties map[string]any        `json:"properties"`
}

// NewDataSource builds and validates a data source.
func NewDataSource(src domain.DataSourceType, props map[string]any) (DataSource, error) {
	if props == nil {
		props = map[string]any{}
	}
	ds := DataSource{Type: src, Properties: props}
	if err := ds.Validate(); err != nil {
		return DataSource{}, err
	}
	return ds, nil
}

// Validate checks the properties against the data source table.
func (d DataSource) Validate() error {
	return dataSourceProperties.Check("DataSource", d.Type, d.Properties)
}
