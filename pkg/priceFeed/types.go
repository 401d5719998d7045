package priceFeed

// detailResponse is the subset of the detail endpoint's response that is read.
// Example response:
//
//	{
//	  "data": {
//	    "id": 1,
//	    "name": "Bitcoin",
//	    "symbol": "BTC",
//	    "statistics": { "price": 67012.53, "totalSupply": 19700000 }
//	  },
//	  "status": { "timestamp": "2024-05-01T00:00:00Z", "error_code": "0" }
//	}
type detailResponse struct {
	Data *detailData `json:"data"`
}

type detailData struct {
	Id         float64     `json:"id"`
	Name       string      `json:"name"`
	Symbol     string      `json:"symbol"`
	Statistics *statistics `json:"statistics"`
}

type statistics struct {
	Price       *float64 `json:"price"`
	TotalSupply float64  `json:"totalSupply"`
}
