package balance

import "github.com/MrJamesThe3rd/tally/internal/balance"

type relationshipResponse struct {
	OtherUserID   int64  `json:"other_user_id"`
	OtherUserName string `json:"other_user_name"`
	Amount        string `json:"amount"`
	Direction     string `json:"direction"`
}

type userBalanceResponse struct {
	UserID        int64                  `json:"user_id"`
	UserName      string                 `json:"user_name"`
	Relationships []relationshipResponse `json:"relationships"`
	TotalOwed     string                 `json:"total_owed"`
	TotalOwing    string                 `json:"total_owing"`
	NetAmount     string                 `json:"net_amount"`
	NetType       string                 `json:"net_type"`
}

func toRelationshipResponse(rel balance.DebtRelationship) relationshipResponse {
	return relationshipResponse{
		OtherUserID:   rel.OtherUserID,
		OtherUserName: rel.OtherUserName,
		Amount:        rel.Amount.StringFixed(2),
		Direction:     rel.Direction.String(),
	}
}

func toUserBalanceResponse(b balance.UserBalance) userBalanceResponse {
	rels := make([]relationshipResponse, len(b.Relationships))
	for i, rel := range b.Relationships {
		rels[i] = toRelationshipResponse(rel)
	}

	return userBalanceResponse{
		UserID:        b.UserID,
		UserName:      b.UserName,
		Relationships: rels,
		TotalOwed:     b.TotalOwed.StringFixed(2),
		TotalOwing:    b.TotalOwing.StringFixed(2),
		NetAmount:     b.NetAmount.StringFixed(2),
		NetType:       b.NetType.String(),
	}
}
