package capital

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/capital/pkg/id"
)

type positionsEnvelope struct {
	Positions []json.RawMessage `json:"positions"`
}

// GetOpenPositions authenticates and returns the elements of the
// "positions" array exactly as the API sent them. Every failure is
// reported as ErrFetchPositions.
func (c *Client) GetOpenPositions(ctx context.Context) ([]json.RawMessage, error) {
	log := c.log.WithFields(logrus.Fields{"op": "positions", "op_id": id.New()})

	positions, err := c.getOpenPositions(ctx)
	c.recorder.Fetch("positions", err)
	if err != nil {
		log.WithError(err).Error("fetch positions")
		return nil, ErrFetchPositions
	}
	log.WithField("count", len(positions)).Debug("fetched positions")
	return positions, nil
}

func (c *Client) getOpenPositions(ctx context.Context) ([]json.RawMessage, error) {
	headers, err := c.Authenticate(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "authenticate")
	}

	var env positionsEnvelope
	if err := c.getJSON(ctx, "positions", headers, &env); err != nil {
		return nil, err
	}
	return env.Positions, nil
}

// Direction is the side of a position.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// Position is the deal part of an open position.
type Position struct {
	ContractSize   float64   `json:"contractSize"`
	CreatedDate    string    `json:"createdDate"`
	CreatedDateUTC string    `json:"createdDateUTC"`
	DealID         string    `json:"dealId"`
	DealReference  string    `json:"dealReference"`
	WorkingOrderID string    `json:"workingOrderId"`
	Size           float64   `json:"size"`
	Leverage       float64   `json:"leverage"`
	UPL            float64   `json:"upl"`
	Direction      Direction `json:"direction"`
	Level          float64   `json:"level"`
	Currency       string    `json:"currency"`
	GuaranteedStop bool      `json:"guaranteedStop"`
}

// Market is the instrument snapshot attached to an open position.
type Market struct {
	InstrumentName           string  `json:"instrumentName"`
	Expiry                   string  `json:"expiry"`
	MarketStatus             string  `json:"marketStatus"`
	Epic                     string  `json:"epic"`
	InstrumentType           string  `json:"instrumentType"`
	LotSize                  float64 `json:"lotSize"`
	High                     float64 `json:"high"`
	Low                      float64 `json:"low"`
	PercentageChange         float64 `json:"percentageChange"`
	NetChange                float64 `json:"netChange"`
	Bid                      float64 `json:"bid"`
	Offer                    float64 `json:"offer"`
	UpdateTime               string  `json:"updateTime"`
	UpdateTimeUTC            string  `json:"updateTimeUTC"`
	DelayTime                int     `json:"delayTime"`
	StreamingPricesAvailable bool    `json:"streamingPricesAvailable"`
	ScalingFactor            float64 `json:"scalingFactor"`
}

// OpenPosition is one element of the positions array.
type OpenPosition struct {
	Position Position `json:"position"`
	Market   Market   `json:"market"`
}

// DecodePositions converts raw positions into typed records.
func DecodePositions(raw []json.RawMessage) ([]OpenPosition, error) {
	out := make([]OpenPosition, 0, len(raw))
	for i, r := range raw {
		var p OpenPosition
		if err := json.Unmarshal(r, &p); err != nil {
			return nil, errors.Wrapf(err, "decode position %d", i)
		}
		out = append(out, p)
	}
	return out, nil
}
