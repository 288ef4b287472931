package models

import (
	"sort"
	"strings"

	"tradekit/internal/errors"
)

// Registry owns the two naming namespaces of a backtest run: contract
// symbols and contract-group names. Creating a group or contract claims its
// name; a claimed name stays taken until the matching Reset call. The two
// namespaces are independent, so a group and a contract may share a name.
//
// A Registry is not safe for concurrent use. Give each backtest run its own
// instance; see the check command for the pattern.
type Registry struct {
	contracts map[string]*Contract
	groups    map[string]*ContractGroup
}

// NewRegistry returns an empty registry with both namespaces free.
func NewRegistry() *Registry {
	return &Registry{
		contracts: make(map[string]*Contract),
		groups:    make(map[string]*ContractGroup),
	}
}

// NewContractGroup creates a group and claims its name. The name must be
// non-blank and unused; on failure nothing is registered.
func (r *Registry) NewContractGroup(name string) (*ContractGroup, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.NewInvalidArgumentError("name", name, "group name must not be blank")
	}
	if _, ok := r.groups[name]; ok {
		return nil, errors.NewDuplicateNameError("contract group", name)
	}
	g := &ContractGroup{
		name:      name,
		registry:  r,
		contracts: make(map[string]*Contract),
	}
	r.groups[name] = g
	return g, nil
}

// ContractGroup looks up a group by name.
func (r *Registry) ContractGroup(name string) (*ContractGroup, bool) {
	g, ok := r.groups[name]
	return g, ok
}

// Contract looks up a contract by symbol.
func (r *Registry) Contract(symbol string) (*Contract, bool) {
	c, ok := r.contracts[symbol]
	return c, ok
}

// Groups returns every registered group sorted by name.
func (r *Registry) Groups() []*ContractGroup {
	out := make([]*ContractGroup, 0, len(r.groups))
	for _, g := range r.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Contracts returns every registered contract sorted by symbol.
func (r *Registry) Contracts() []*Contract {
	out := make([]*Contract, 0, len(r.contracts))
	for _, c := range r.contracts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].symbol < out[j].symbol })
	return out
}

// Reset frees both namespaces. Handles created before the reset keep
// working but are no longer reachable through the registry, and their names
// may be claimed again.
func (r *Registry) Reset() {
	r.ResetSymbols()
	r.ResetGroups()
}

// ResetSymbols frees the contract-symbol namespace only.
func (r *Registry) ResetSymbols() {
	r.contracts = make(map[string]*Contract)
}

// ResetGroups frees the group-name namespace only.
func (r *Registry) ResetGroups() {
	r.groups = make(map[string]*ContractGroup)
}

func (r *Registry) registerContract(c *Contract) error {
	if _, ok := r.contracts[c.symbol]; ok {
		return errors.NewDuplicateNameError("contract", c.symbol)
	}
	r.contracts[c.symbol] = c
	return nil
}
