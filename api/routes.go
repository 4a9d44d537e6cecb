package api

import "strings"

const (
	// PingEndpoint is the endpoint for checking the API status
	PingEndpoint = "/ping"
	// ElectionsEndpoint is the endpoint for creating and listing elections
	ElectionsEndpoint = "/elections"
	// ElectionURLParam is the URL parameter holding the election id
	ElectionURLParam = "electionId"
	// ElectionEndpoint is the endpoint to get the election info
	ElectionEndpoint = "/elections/{" + ElectionURLParam + "}"
	// BallotsEndpoint is the endpoint for submitting an encrypted ballot
	BallotsEndpoint = ElectionEndpoint + "/ballots"
	// CloseEndpoint freezes the tally of an election
	CloseEndpoint = ElectionEndpoint + "/close"
	// TallyEndpoint is the endpoint to get the encrypted tally of an election
	TallyEndpoint = ElectionEndpoint + "/tally"
	// SharesEndpoint is the endpoint for submitting the decrypt share of a committee member
	SharesEndpoint = ElectionEndpoint + "/shares"
	// ResultEndpoint is the endpoint to get the decrypted tally
	ResultEndpoint = ElectionEndpoint + "/result"
)

// ElectionPath returns the path of an election endpoint for the given id,
// e.g. ElectionPath(TallyEndpoint, id) = /elections/<id>/tally.
func ElectionPath(endpoint, id string) string {
	return strings.Replace(endpoint, "{"+ElectionURLParam+"}", id, 1)
}
