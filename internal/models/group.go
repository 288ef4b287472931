package models

import "sort"

// ContractGroup is a named collection of contracts traded as one logical
// instrument, e.g. every quarterly future on the same index. Groups are
// created through Registry.NewContractGroup, which enforces name
// uniqueness.
type ContractGroup struct {
	name      string
	registry  *Registry
	contracts map[string]*Contract
}

// Name returns the group's unique name.
func (g *ContractGroup) Name() string {
	return g.name
}

// Registry returns the registry the group was created in.
func (g *ContractGroup) Registry() *Registry {
	return g.registry
}

// Contract returns the member with the given symbol.
func (g *ContractGroup) Contract(symbol string) (*Contract, bool) {
	c, ok := g.contracts[symbol]
	return c, ok
}

// Contracts returns the members sorted by symbol.
func (g *ContractGroup) Contracts() []*Contract {
	out := make([]*Contract, 0, len(g.contracts))
	for _, c := range g.contracts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].symbol < out[j].symbol })
	return out
}

func (g *ContractGroup) String() string {
	return g.name
}

// addContract records membership. When a symbol is recreated after a
// registry reset, the newer contract replaces the stale member.
func (g *ContractGroup) addContract(c *Contract) {
	g.contracts[c.symbol] = c
}
