// Package compose is the Docker Compose dialect.
//
// Services, networks and volumes keep the order they were declared in, so a
// preset chain renders services in the order their presets introduce them.
package compose

import (
	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/dialect"
	"github.com/roach88/sketch/internal/serialize"
	"github.com/roach88/sketch/internal/tree"
	"github.com/roach88/sketch/internal/union"
)

const Tag = "docker_compose"

// Project is a compose file.
type Project struct {
	Version  string                                  `json:"version"`
	Name     string                                  `json:"name"`
	Include  collection.Set[union.StringOr[Include]] `json:"include"`
	Services collection.OrderedMap[Service]          `json:"services"`
	Networks collection.OrderedMap[*Network]         `json:"networks"`
	Volumes  collection.OrderedMap[*Volume]          `json:"volumes"`
	Configs  collection.OrderedMap[*Resource]        `json:"configs"`
	Secrets  collection.OrderedMap[*Resource]        `json:"secrets"`
	Models   *tree.Object                            `json:"models"`
	Extra    *tree.Object                            `schema:"extra"`
}

// Include is the record form of an `include` entry.
type Include struct {
	Path             union.StringOrList `json:"path"`
	ProjectDirectory string             `json:"project_directory" alias:"project-directory"`
	EnvFile          union.StringOrList `json:"env_file" alias:"env-file"`
}

// Condition is the state a dependency must reach.
type Condition string

func (Condition) EnumValues() []string {
	return []string{"service_started", "service_healthy", "service_completed_successfully"}
}

// Dependency is the settings of one `depends_on` entry.
type Dependency struct {
	Condition Condition `json:"condition"`
	Restart   *bool     `json:"restart"`
	Required  *bool     `json:"required"`
}

// DependsOn is `depends_on`.
type DependsOn = Refs[Dependency]

// ServiceNetwork is the settings of one entry of a service's `networks`. It
// may be null.
type ServiceNetwork struct {
	Aliases      collection.Set[string] `json:"aliases"`
	IPv4Address  string                 `json:"ipv4_address"`
	IPv6Address  string                 `json:"ipv6_address"`
	LinkLocalIPs collection.Set[string] `json:"link_local_ips"`
	MacAddress   string                 `json:"mac_address"`
	Priority     int64                  `json:"priority"`
}

// ServiceNetworks is a service's `networks`.
type ServiceNetworks = Refs[*ServiceNetwork]

// Build is the record form of `build`.
type Build struct {
	Context    string                                  `json:"context"`
	Dockerfile string                                  `json:"dockerfile"`
	Args       union.ListOrMap                         `json:"args"`
	Target     string                                  `json:"target"`
	CacheFrom  collection.Set[string]                  `json:"cache_from" alias:"cache-from"`
	CacheTo    collection.Set[string]                  `json:"cache_to" alias:"cache-to"`
	Labels     union.ListOrMap                         `json:"labels"`
	Network    string                                  `json:"network"`
	Platforms  collection.Set[string]                  `json:"platforms"`
	Secrets    collection.Set[union.StringOr[FileRef]] `json:"secrets"`
	Extra      *tree.Object                            `schema:"extra"`
}

// Port is the record form of a `ports` entry.
type Port struct {
	Name        string       `json:"name"`
	Target      union.Scalar `json:"target"`
	Published   union.Scalar `json:"published"`
	HostIP      string       `json:"host_ip"`
	Protocol    string       `json:"protocol"`
	AppProtocol string       `json:"app_protocol"`
	Mode        string       `json:"mode"`
}

// Mount is the record form of a service `volumes` entry.
type Mount struct {
	Type        string       `json:"type"`
	Source      string       `json:"source"`
	Target      string       `json:"target"`
	ReadOnly    *bool        `json:"read_only"`
	Consistency string       `json:"consistency"`
	Bind        *tree.Object `json:"bind"`
	Volume      *tree.Object `json:"volume"`
	Tmpfs       *tree.Object `json:"tmpfs"`
}

// Ulimit is the record form of a `ulimits` entry.
type Ulimit struct {
	Soft int64 `json:"soft"`
	Hard int64 `json:"hard"`
}

// Healthcheck is `healthcheck`. The test command is an ordered argv and is
// replaced as a whole.
type Healthcheck struct {
	Test          tree.Value `json:"test" merge:"overwrite"`
	Interval      string     `json:"interval"`
	Timeout       string     `json:"timeout"`
	Retries       int64      `json:"retries"`
	StartPeriod   string     `json:"start_period"`
	StartInterval string     `json:"start_interval"`
	Disable       *bool      `json:"disable"`
}

// Logging is `logging`.
type Logging struct {
	Driver  string                        `json:"driver"`
	Options collection.OrderedMap[string] `json:"options"`
}

// FileRef is the record form of a service `secrets` or `configs` entry.
type FileRef struct {
	Source string       `json:"source"`
	Target string       `json:"target"`
	UID    string       `json:"uid"`
	GID    string       `json:"gid"`
	Mode   union.Scalar `json:"mode"`
}

// Service is a `services.<name>` entry. Command lines are ordered and replaced
// as a whole; everything list- or map-shaped accumulates.
type Service struct {
	Image           string                                        `json:"image"`
	Build           union.StringOr[Build]                         `json:"build"`
	ContainerName   string                                        `json:"container_name"`
	Hostname        string                                        `json:"hostname"`
	Platform        string                                        `json:"platform"`
	PullPolicy      string                                        `json:"pull_policy"`
	Restart         string                                        `json:"restart"`
	Profiles        collection.Set[string]                        `json:"profiles"`
	Command         tree.Value                                    `json:"command" merge:"overwrite"`
	Entrypoint      tree.Value                                    `json:"entrypoint" merge:"overwrite"`
	WorkingDir      string                                        `json:"working_dir"`
	User            string                                        `json:"user"`
	Environment     union.ListOrMap                               `json:"environment"`
	EnvFile         EnvFile                                       `json:"env_file"`
	Ports           collection.Set[union.ScalarOr[Port]]          `json:"ports"`
	Expose          collection.Set[union.Scalar]                  `json:"expose"`
	Volumes         collection.Set[union.StringOr[Mount]]         `json:"volumes"`
	VolumesFrom     collection.Set[string]                        `json:"volumes_from"`
	Tmpfs           union.StringOrList                            `json:"tmpfs"`
	DependsOn       DependsOn                                     `json:"depends_on"`
	Links           collection.Set[string]                        `json:"links"`
	Networks        ServiceNetworks                               `json:"networks"`
	NetworkMode     string                                        `json:"network_mode"`
	ExtraHosts      union.ListOrMap                               `json:"extra_hosts"`
	DNS             union.StringOrList                            `json:"dns"`
	Healthcheck     *Healthcheck                                  `json:"healthcheck"`
	Labels          union.ListOrMap                               `json:"labels"`
	Annotations     union.ListOrMap                               `json:"annotations"`
	Sysctls         union.ListOrMap                               `json:"sysctls"`
	Ulimits         collection.OrderedMap[union.ScalarOr[Ulimit]] `json:"ulimits"`
	GPUs            GPUs                                          `json:"gpus"`
	CapAdd          collection.Set[string]                        `json:"cap_add"`
	CapDrop         collection.Set[string]                        `json:"cap_drop"`
	Devices         collection.Set[string]                        `json:"devices"`
	Init            *bool                                         `json:"init"`
	Privileged      *bool                                         `json:"privileged"`
	ReadOnly        *bool                                         `json:"read_only"`
	StdinOpen       *bool                                         `json:"stdin_open"`
	Tty             *bool                                         `json:"tty"`
	StopSignal      string                                        `json:"stop_signal"`
	StopGracePeriod string                                        `json:"stop_grace_period"`
	ShmSize         union.Scalar                                  `json:"shm_size"`
	Secrets         collection.Set[union.StringOr[FileRef]]       `json:"secrets"`
	Configs         collection.Set[union.StringOr[FileRef]]       `json:"configs"`
	Logging         *Logging                                      `json:"logging"`
	Deploy          *tree.Object                                  `json:"deploy"`
	Develop         *tree.Object                                  `json:"develop"`
	Extends         union.StringOr[ServiceExtends]                `json:"extends"`
	Extra           *tree.Object                                  `schema:"extra"`
}

// ServiceExtends is the record form of a service's `extends`.
type ServiceExtends struct {
	Service string `json:"service"`
	File    string `json:"file"`
}

// Network is a top-level `networks` entry. It may be null.
type Network struct {
	Name       string                              `json:"name"`
	Driver     string                              `json:"driver"`
	DriverOpts collection.OrderedMap[union.Scalar] `json:"driver_opts"`
	External   *bool                               `json:"external"`
	Internal   *bool                               `json:"internal"`
	Attachable *bool                               `json:"attachable"`
	EnableIPv6 *bool                               `json:"enable_ipv6"`
	IPAM       *tree.Object                        `json:"ipam"`
	Labels     union.ListOrMap                     `json:"labels"`
}

// Volume is a top-level `volumes` entry. It may be null.
type Volume struct {
	Name       string                              `json:"name"`
	Driver     string                              `json:"driver"`
	DriverOpts collection.OrderedMap[union.Scalar] `json:"driver_opts"`
	External   *bool                               `json:"external"`
	Labels     union.ListOrMap                     `json:"labels"`
}

// Resource is a top-level `configs` or `secrets` entry.
type Resource struct {
	Name        string          `json:"name"`
	File        string          `json:"file"`
	Environment string          `json:"environment"`
	Content     string          `json:"content"`
	External    *bool           `json:"external"`
	Labels      union.ListOrMap `json:"labels"`
}

// Spec is the compose dialect.
var Spec = &dialect.Spec[Project]{
	Tag:     Tag,
	Path:    "compose.yaml",
	Accepts: []serialize.Format{serialize.YAML},
}
