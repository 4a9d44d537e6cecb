package client

import (
	"github.com/vocdoni/private-voting/api"
	"github.com/vocdoni/private-voting/types"
)

// NewElection registers an election on the node.
func (c *HTTPclient) NewElection(e *api.NewElection) (*api.NewElectionResponse, error) {
	resp := &api.NewElectionResponse{}
	if err := c.call(HTTPPOST, e, resp, api.ElectionsEndpoint); err != nil {
		return nil, err
	}
	return resp, nil
}

// Election returns the stored setup and status of an election.
func (c *HTTPclient) Election(id types.ElectionID) (*types.Election, error) {
	e := &types.Election{}
	if err := c.call(HTTPGET, nil, e, api.ElectionPath(api.ElectionEndpoint, id.String())); err != nil {
		return nil, err
	}
	return e, nil
}

// SubmitBallot queues an encoded ballot with the given weight.
func (c *HTTPclient) SubmitBallot(id types.ElectionID, ballot []byte, weight uint64) (string, error) {
	resp := &api.BallotResponse{}
	req := &api.Ballot{Ballot: ballot, Weight: types.NewInt(weight)}
	if err := c.call(HTTPPOST, req, resp, api.ElectionPath(api.BallotsEndpoint, id.String())); err != nil {
		return "", err
	}
	return resp.BallotID, nil
}

// CloseElection freezes the tally of an election and returns it.
func (c *HTTPclient) CloseElection(id types.ElectionID) (*api.Tally, error) {
	t := &api.Tally{}
	if err := c.call(HTTPPOST, nil, t, api.ElectionPath(api.CloseEndpoint, id.String())); err != nil {
		return nil, err
	}
	return t, nil
}

// Tally returns the encrypted tally of an election.
func (c *HTTPclient) Tally(id types.ElectionID) (*api.Tally, error) {
	t := &api.Tally{}
	if err := c.call(HTTPGET, nil, t, api.ElectionPath(api.TallyEndpoint, id.String())); err != nil {
		return nil, err
	}
	return t, nil
}

// SubmitDecryptShare posts the encoded decrypt share of a committee member.
func (c *HTTPclient) SubmitDecryptShare(id types.ElectionID, share []byte) (*api.DecryptShareResponse, error) {
	resp := &api.DecryptShareResponse{}
	if err := c.call(HTTPPOST, &api.DecryptShare{Share: share}, resp, api.ElectionPath(api.SharesEndpoint, id.String())); err != nil {
		return nil, err
	}
	return resp, nil
}

// Result returns the decrypted tally of an election.
func (c *HTTPclient) Result(id types.ElectionID) ([]uint64, error) {
	res := &api.Result{}
	if err := c.call(HTTPGET, nil, res, api.ElectionPath(api.ResultEndpoint, id.String())); err != nil {
		return nil, err
	}
	return res.Votes, nil
}
