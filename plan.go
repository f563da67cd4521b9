package pdfsite

import (
	"encoding/json"

	"github.com/aws/aws-cdk-go/awscdk/v2/cxapi"

	"github.com/theory-cloud/pdfsite/pkg/graph"
)

// StackPlan is the provisioning order of one synthesized stack.
type StackPlan struct {
	Stack string       `json:"stack"`
	Steps []graph.Step `json:"steps"`
}

// Plans derives the provisioning order of every site stack from a synthesized assembly,
// in stack deployment order.
func (s *Site) Plans(assembly cxapi.CloudAssembly) ([]StackPlan, error) {
	if assembly == nil {
		return nil, newSiteError(ErrorCodeSynthesis, "cloud assembly is required", nil)
	}

	plans := make([]StackPlan, 0, 2)
	for _, stack := range s.Stacks() {
		artifactID := *stack.ArtifactId()
		template, err := decodeTemplate(assembly.GetStackArtifact(stack.ArtifactId()).Template())
		if err != nil {
			return nil, newSiteError(ErrorCodeSynthesis, "decode template of "+artifactID, err)
		}
		g, err := graph.FromTemplate(template)
		if err != nil {
			return nil, newSiteError(ErrorCodeSynthesis, "build graph of "+artifactID, err)
		}
		steps, err := g.Plan()
		if err != nil {
			return nil, newSiteError(ErrorCodeSynthesis, "order resources of "+artifactID, err)
		}
		plans = append(plans, StackPlan{Stack: artifactID, Steps: steps})
	}
	return plans, nil
}

// decodeTemplate normalizes the jsii template value into plain JSON types.
func decodeTemplate(raw any) (map[string]any, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var template map[string]any
	if err := json.Unmarshal(encoded, &template); err != nil {
		return nil, err
	}
	return template, nil
}
