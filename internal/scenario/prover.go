// SPDX-License-Identifier: MPL-2.0

package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"vcdemo-cli/internal/webhook"
)

type (
	difRequest struct {
		PresentationDefinition struct {
			InputDescriptors []inputDescriptor `json:"input_descriptors"`
		} `json:"presentation_definition"`
	}

	inputDescriptor struct {
		ID     string `json:"id"`
		Schema []struct {
			URI string `json:"uri"`
		} `json:"schema"`
	}

	// walletRecord is the subset of a stored W3C credential needed to
	// match it against an input descriptor.
	walletRecord struct {
		RecordID     string   `json:"record_id"`
		Type         []string `json:"type"`
		IssuanceDate string   `json:"issuanceDate"`
	}
)

// sendPresentation answers a proof request by selecting matching wallet
// records and submitting a DIF presentation referencing them.
func (b *base) sendPresentation(ctx context.Context, event webhook.PresentationEvent) error {
	_, dif := event.PresRequestFormats()
	if dif == nil {
		return fmt.Errorf("presentation request %s carries no dif format", event.PresExID)
	}

	credentials, err := b.admin.PresentationCredentials(ctx, event.PresExID)
	if err != nil {
		return err
	}

	presentation, err := buildDIFPresentation(dif, credentials)
	if err != nil {
		return err
	}
	return b.admin.SendPresentation(ctx, event.PresExID, presentation)
}

// buildDIFPresentation maps each input descriptor of the request to the
// newest wallet record whose credential type matches one of the
// descriptor's schema URIs.
func buildDIFPresentation(request, credentials json.RawMessage) (map[string]any, error) {
	var req difRequest
	if err := json.Unmarshal(request, &req); err != nil {
		return nil, fmt.Errorf("failed to decode dif proof request: %w", err)
	}

	var records []walletRecord
	if len(credentials) > 0 {
		if err := json.Unmarshal(credentials, &records); err != nil {
			return nil, fmt.Errorf("failed to decode wallet records: %w", err)
		}
	}
	records = sortedDIFRecords(records)

	recordIDs := map[string][]string{}
	for _, descriptor := range req.PresentationDefinition.InputDescriptors {
		for _, record := range records {
			if matchesDescriptorSchema(descriptor, record) {
				recordIDs[descriptor.ID] = []string{record.RecordID}
				break
			}
		}
	}

	return map[string]any{
		"dif": map[string]any{"record_ids": recordIDs},
	}, nil
}

// sortedDIFRecords keeps only JSON-LD records and orders them newest
// first, so a descriptor picks the most recently issued credential.
func sortedDIFRecords(records []walletRecord) []walletRecord {
	filtered := make([]walletRecord, 0, len(records))
	for _, record := range records {
		if record.IssuanceDate != "" {
			filtered = append(filtered, record)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].IssuanceDate > filtered[j].IssuanceDate
	})
	return filtered
}

func matchesDescriptorSchema(descriptor inputDescriptor, record walletRecord) bool {
	for _, schema := range descriptor.Schema {
		for _, recordType := range record.Type {
			if strings.Contains(schema.URI, recordType) {
				return true
			}
		}
	}
	return false
}
