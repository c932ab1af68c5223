package model

// ResponseTypeAnswerOnly asks the node for the answer without a cost estimate.
const ResponseTypeAnswerOnly uint32 = 0

// QueryHeader carries per-query options.
type QueryHeader struct {
	ResponseType uint32
}

// TransactionGetReceiptQuery asks for the receipt of a transaction.
type TransactionGetReceiptQuery struct {
	Header        QueryHeader
	TransactionID TransactionID
}

// Query wraps a single query variant.
type Query struct {
	TransactionGetReceipt *TransactionGetReceiptQuery `rlp:"nil"`
}

// NewReceiptQuery builds the query for the receipt of id.
func NewReceiptQuery(id TransactionID) *Query {
	return &Query{
		TransactionGetReceipt: &TransactionGetReceiptQuery{
			Header:        QueryHeader{ResponseType: ResponseTypeAnswerOnly},
			TransactionID: id,
		},
	}
}

// ResponseHeader is the node's synchronous verdict on a query.
type ResponseHeader struct {
	NodeTransactionPrecheckCode uint32
	ResponseType                uint32
	Cost                        uint64
}

// TransactionReceipt is the ledger-issued record of a transaction's final status.
type TransactionReceipt struct {
	Status              uint32
	AccountID           *AccountID `rlp:"nil"`
	TopicSequenceNumber uint64
	TopicRunningHash    []byte
}

// TransactionGetReceiptResponse answers a TransactionGetReceiptQuery.
type TransactionGetReceiptResponse struct {
	Header  ResponseHeader
	Receipt *TransactionReceipt `rlp:"nil"`
}

// Response wraps a single response variant.
type Response struct {
	TransactionGetReceipt *TransactionGetReceiptResponse `rlp:"nil"`
}
