package binding

import "errors"

// Run binds services and applies the plan. Per-service errors do not stop
// the other services; they are returned, joined with any artifact errors,
// after everything else has been written.
func (o *Orchestrator) Run(services map[string]any) (*Plan, *Report, error) {
	plan, err := o.Bind(services)
	if err != nil {
		return nil, nil, err
	}

	report, err := o.Apply(plan)
	if err != nil {
		return plan, report, errors.Join(append([]error{err}, plan.Errors...)...)
	}
	return plan, report, errors.Join(plan.Errors...)
}
