package orchestrator

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/loopcast/loopcast/pkg/config"
)

// Spec is the validated shape of a virtual host definition, extracted from
// its configuration node before the host is admitted to the topology.
type Spec struct {
	// Name uniquely identifies the host within the topology.
	Name string `json:"name" validate:"required,max=253,excludesall= "`

	// Distribution is an optional operator-assigned distribution label.
	Distribution string `json:"distribution,omitempty" validate:"max=253"`

	// HostNames are the hostnames routed to this virtual host.
	HostNames []string `json:"host_names,omitempty" validate:"dive,required"`
}

// VirtualHost is a live entry of the topology. Its configuration node is
// frozen on admission, so any goroutine may read it without locking. The
// topology owns the entry; everything else holds non-owning references.
type VirtualHost struct {
	id        string
	spec      Spec
	node      *config.Node
	static    bool
	createdAt time.Time

	// refs counts active dependents (streams, sessions) that must drain
	// before the host may be deleted.
	refs atomic.Int32
}

// ID returns the unique identifier assigned on admission.
func (v *VirtualHost) ID() string { return v.id }

// Name returns the topology-unique host name.
func (v *VirtualHost) Name() string { return v.spec.Name }

// Distribution returns the distribution label, if configured.
func (v *VirtualHost) Distribution() string { return v.spec.Distribution }

// HostNames returns the hostnames routed to this virtual host.
func (v *VirtualHost) HostNames() []string {
	out := make([]string, len(v.spec.HostNames))
	copy(out, v.spec.HostNames)
	return out
}

// Node returns the frozen configuration subtree of this host.
func (v *VirtualHost) Node() *config.Node { return v.node }

// Static reports whether the host came from the server configuration file.
// Static hosts cannot be deleted through the administrative surface.
func (v *VirtualHost) Static() bool { return v.static }

// CreatedAt returns the admission time.
func (v *VirtualHost) CreatedAt() time.Time { return v.createdAt }

// Acquire registers an active dependent.
func (v *VirtualHost) Acquire() { v.refs.Add(1) }

// Release unregisters an active dependent.
func (v *VirtualHost) Release() { v.refs.Add(-1) }

// Dependents returns the current number of active dependents.
func (v *VirtualHost) Dependents() int { return int(v.refs.Load()) }

// specFromNode extracts the validated shape from a virtual host node.
func specFromNode(node *config.Node) Spec {
	spec := Spec{}
	spec.Name, _ = node.GetString("Name")
	spec.Distribution, _ = node.GetString("Distribution")

	if host, ok := node.Child("Host"); ok {
		if names, ok := host.Child("Names"); ok {
			if list, ok := names.GetList("Name"); ok {
				spec.HostNames = list.Strings()
			}
		}
	}
	return spec
}

func newVirtualHost(spec Spec, node *config.Node, static bool) *VirtualHost {
	return &VirtualHost{
		id:        uuid.New().String(),
		spec:      spec,
		node:      node,
		static:    static,
		createdAt: time.Now(),
	}
}
