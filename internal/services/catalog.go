package services

// Certificate is one entry of the static catalog: a Cloudinary-hosted
// template image, free or tied to a Stripe price.
type Certificate struct {
	ID       int
	PublicID string // Cloudinary public ID of the template asset
	Free     bool
	PriceID  string // Stripe price ID, empty for free certificates
}

// Catalog is the read-only certificate catalog. Built once at startup, no
// locking needed afterwards.
type Catalog struct {
	entries map[int]Certificate
}

// NewCatalog builds a catalog from the given entries.
func NewCatalog(entries []Certificate) *Catalog {
	c := &Catalog{entries: make(map[int]Certificate, len(entries))}
	for _, e := range entries {
		c.entries[e.ID] = e
	}
	return c
}

// DefaultCatalog returns the production certificate set: ids 1-10,
// certificates 1 and 5 free.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Certificate{
		{ID: 1, PublicID: "bestfriend_aamfqh", Free: true},
		{ID: 2, PublicID: "malgof_egqihg", PriceID: "price_1Qlw3YBH45p3WHSs6t7GT3cc"},
		{ID: 3, PublicID: "kfoo_ncybxx", PriceID: "price_1QlwCPBH45p3WHSsOJPIV4ck"},
		{ID: 4, PublicID: "lazy_vndi9i", PriceID: "price_1QlwBMBH45p3WHSsLhUpZIiJ"},
		{ID: 5, PublicID: "Mokaf7_vetjxx", Free: true},
		{ID: 6, PublicID: "donothing_nvdhcx", PriceID: "price_1QlwBhBH45p3WHSshaMTmMgO"},
		{ID: 7, PublicID: "knoweverything_vppbsa", PriceID: "price_1QlwCjBH45p3WHSsIkSlJpNl"},
		{ID: 8, PublicID: "friendly_e7szzo", PriceID: "price_1QlwB3BH45p3WHSsO1DoVyn3"},
		{ID: 9, PublicID: "kingnegative_ak81hp", PriceID: "price_1QlwAGBH45p3WHSst46YVwME"},
		{ID: 10, PublicID: "lier_hyuisy", PriceID: "price_1QlwAiBH45p3WHSsmU4G4EXn"},
	})
}

// Get looks up a certificate by id.
func (c *Catalog) Get(id int) (Certificate, bool) {
	cert, ok := c.entries[id]
	return cert, ok
}

// Size returns the number of catalog entries.
func (c *Catalog) Size() int {
	return len(c.entries)
}
