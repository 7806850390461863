package costing

// ContainerSpec is informational shipping-container data shown alongside a
// calculation. Capacity does not enter the cost arithmetic.
type ContainerSpec struct {
	Type       ContainerType `json:"type"`
	Capacity   string        `json:"capacity"`
	MaxWeight  string        `json:"maxWeight"`
	Dimensions string        `json:"dimensions"`
}

var containerSpecs = []ContainerSpec{
	{
		Type:       Container20ft,
		Capacity:   "28-33 CBM",
		MaxWeight:  "28,000 kg",
		Dimensions: "5.9m x 2.35m x 2.39m",
	},
	{
		Type:       Container40ft,
		Capacity:   "56-67 CBM",
		MaxWeight:  "26,500 kg",
		Dimensions: "12.03m x 2.35m x 2.39m",
	},
	{
		Type:       Container40ftHC,
		Capacity:   "68-76 CBM",
		MaxWeight:  "26,500 kg",
		Dimensions: "12.03m x 2.35m x 2.69m",
	},
}

// ContainerSpecs returns the known container specifications.
func ContainerSpecs() []ContainerSpec {
	out := make([]ContainerSpec, len(containerSpecs))
	copy(out, containerSpecs)
	return out
}

// LookupContainer returns the spec for a container type. LCL shipments have
// no fixed specification.
func LookupContainer(t ContainerType) (ContainerSpec, bool) {
	for _, spec := range containerSpecs {
		if spec.Type == t {
			return spec, true
		}
	}
	return ContainerSpec{}, false
}
