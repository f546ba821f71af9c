package sparql

// Value is one RDF term bound to a projected variable.
type Value struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

// Binding maps projected variable names to their bound values.
// Variables left unbound by the endpoint are simply absent from the map.
type Binding map[string]Value

// ResultSet mirrors the SPARQL JSON results envelope returned by the endpoint.
type ResultSet struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}
