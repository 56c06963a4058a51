package workflow

import (
	"github.com/roach88/sketch/internal/collection"
	"github.com/roach88/sketch/internal/merge"
	"github.com/roach88/sketch/internal/schema"
	"github.com/roach88/sketch/internal/tree"
	"github.com/roach88/sketch/internal/union"
)

// Job is a `jobs.<id>` entry: a normal job, or a call to a reusable workflow
// recognised by its `uses` key. Jobs of the same kind merge field by field;
// a normal job cannot be merged with a reusable one.
type Job struct {
	normal   *NormalJob
	reusable *ReusableJob
}

// Normal returns a job that runs steps.
func Normal(j NormalJob) Job { return Job{normal: &j} }

// Reusable returns a job that calls a reusable workflow.
func Reusable(j ReusableJob) Job { return Job{reusable: &j} }

func (j Job) IsZero() bool { return j.normal == nil && j.reusable == nil }

func (j Job) Variant() string {
	switch {
	case j.normal != nil:
		return "normal"
	case j.reusable != nil:
		return "reusable"
	default:
		return "absent"
	}
}

// AsNormal returns the normal form.
func (j Job) AsNormal() (NormalJob, bool) {
	if j.normal == nil {
		return NormalJob{}, false
	}
	return *j.normal, true
}

// AsReusable returns the reusable form.
func (j Job) AsReusable() (ReusableJob, bool) {
	if j.reusable == nil {
		return ReusableJob{}, false
	}
	return *j.reusable, true
}

func (j *Job) DecodeTree(v tree.Value, path tree.Path) error {
	obj, ok := v.(*tree.Object)
	if !ok {
		return schema.TypeError(path, "job", v)
	}
	if obj.Has("uses") {
		var r ReusableJob
		if err := schema.Decode(v, &r, path); err != nil {
			return err
		}
		*j = Reusable(r)
		return nil
	}
	var n NormalJob
	if err := schema.Decode(v, &n, path); err != nil {
		return err
	}
	*j = Normal(n)
	return nil
}

func (j Job) EncodeTree() (tree.Value, error) {
	if j.reusable != nil {
		return schema.Encode(*j.reusable)
	}
	return schema.Encode(*j.normal)
}

func (j Job) Merge(right any, path tree.Path) (any, error) {
	r := right.(Job)
	switch {
	case j.normal != nil && r.normal != nil:
		merged, err := merge.At(*j.normal, *r.normal, path)
		if err != nil {
			return nil, err
		}
		return Normal(merged), nil
	case j.reusable != nil && r.reusable != nil:
		merged, err := merge.At(*j.reusable, *r.reusable, path)
		if err != nil {
			return nil, err
		}
		return Reusable(merged), nil
	default:
		return nil, &merge.CrossVariantError{Path: path, Left: j.Variant(), Right: r.Variant()}
	}
}

// Concurrency is the object form of `concurrency`.
type Concurrency struct {
	Group            string       `json:"group"`
	CancelInProgress union.Scalar `json:"cancel-in-progress" alias:"cancel_in_progress"`
}

// Environment is the object form of `environment`.
type Environment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// RunDefaults is `defaults.run`.
type RunDefaults struct {
	Shell            string `json:"shell"`
	WorkingDirectory string `json:"working-directory" alias:"working_directory"`
}

// Defaults is `defaults`.
type Defaults struct {
	Run *RunDefaults `json:"run"`
}

// Strategy is `strategy`. The matrix is kept as a raw tree and merged key by
// key.
type Strategy struct {
	Matrix      tree.Value   `json:"matrix"`
	FailFast    union.Scalar `json:"fail-fast" alias:"fail_fast"`
	MaxParallel union.Scalar `json:"max-parallel" alias:"max_parallel"`
}

// Container is the object form of `container` and of a service.
type Container struct {
	Image       string                              `json:"image"`
	Credentials *tree.Object                        `json:"credentials"`
	Env         collection.OrderedMap[union.Scalar] `json:"env"`
	Ports       collection.Set[union.Scalar]        `json:"ports"`
	Volumes     collection.Set[string]              `json:"volumes"`
	Options     string                              `json:"options"`
}

// Step is an entry of `steps`.
type Step struct {
	ID               string                              `json:"id"`
	If               union.Scalar                        `json:"if"`
	Name             string                              `json:"name"`
	Uses             string                              `json:"uses"`
	Run              string                              `json:"run"`
	Shell            string                              `json:"shell"`
	WorkingDirectory string                              `json:"working-directory" alias:"working_directory"`
	With             collection.OrderedMap[union.Scalar] `json:"with"`
	Env              collection.OrderedMap[union.Scalar] `json:"env"`
	ContinueOnError  union.Scalar                        `json:"continue-on-error" alias:"continue_on_error"`
	TimeoutMinutes   union.Scalar                        `json:"timeout-minutes" alias:"timeout_minutes"`
}

// NormalJob runs steps on a runner. Steps are an ordered program, so a later
// preset replaces them instead of interleaving.
type NormalJob struct {
	Name            string                                           `json:"name"`
	Needs           union.StringOrList                               `json:"needs"`
	If              union.Scalar                                     `json:"if"`
	RunsOn          tree.Value                                       `json:"runs-on" alias:"runs_on" merge:"overwrite"`
	Permissions     Permissions                                      `json:"permissions"`
	Environment     union.StringOr[Environment]                      `json:"environment"`
	Concurrency     union.StringOr[Concurrency]                      `json:"concurrency"`
	Outputs         collection.OrderedMap[string]                    `json:"outputs"`
	Env             collection.OrderedMap[union.Scalar]              `json:"env"`
	Defaults        *Defaults                                        `json:"defaults"`
	TimeoutMinutes  union.Scalar                                     `json:"timeout-minutes" alias:"timeout_minutes"`
	Strategy        *Strategy                                        `json:"strategy"`
	ContinueOnError union.Scalar                                     `json:"continue-on-error" alias:"continue_on_error"`
	Container       union.StringOr[Container]                        `json:"container"`
	Services        collection.OrderedMap[union.StringOr[Container]] `json:"services"`
	Steps           []Step                                           `json:"steps" merge:"overwrite"`
	Extra           *tree.Object                                     `schema:"extra"`
}

// ReusableJob calls a reusable workflow. The called workflow is the identity
// of the job: once set, a later preset cannot retarget it.
type ReusableJob struct {
	Name        string                                        `json:"name"`
	Needs       union.StringOrList                            `json:"needs"`
	If          union.Scalar                                  `json:"if"`
	Permissions Permissions                                   `json:"permissions"`
	Concurrency union.StringOr[Concurrency]                   `json:"concurrency"`
	Strategy    *Strategy                                     `json:"strategy"`
	Uses        string                                        `json:"uses" merge:"skip"`
	With        collection.OrderedMap[union.Scalar]           `json:"with"`
	Secrets     union.StringOr[collection.OrderedMap[string]] `json:"secrets"`
	Extra       *tree.Object                                  `schema:"extra"`
}
