// Package status classifies ledger response codes.
//
// A code returned synchronously by a node is a precheck verdict; a code found
// in a receipt is the consensus verdict. Classify maps either kind to an
// Outcome, and Message renders the human-readable text for a failure.
package status

import "fmt"

// Code is a ledger response code.
type Code uint32

const (
	OK                             Code = 0
	InvalidTransaction             Code = 1
	PayerAccountNotFound           Code = 2
	InvalidNodeAccount             Code = 3
	TransactionExpired             Code = 4
	InvalidTransactionStart        Code = 5
	InvalidTransactionDuration     Code = 6
	InvalidSignature               Code = 7
	MemoTooLong                    Code = 8
	InsufficientTxFee              Code = 9
	InsufficientPayerBalance       Code = 10
	DuplicateTransaction           Code = 11
	Busy                           Code = 12
	NotSupported                   Code = 13
	InvalidFileID                  Code = 14
	InvalidAccountID               Code = 15
	InvalidContractID              Code = 16
	InvalidTransactionID           Code = 17
	ReceiptNotFound                Code = 18
	RecordNotFound                 Code = 19
	InvalidSolidityID              Code = 20
	Unknown                        Code = 21
	Success                        Code = 22
	FailInvalid                    Code = 23
	FailFee                        Code = 24
	FailBalance                    Code = 25
	KeyRequired                    Code = 26
	BadEncoding                    Code = 27
	InsufficientAccountBalance     Code = 28
	InvalidSolidityAddress         Code = 29
	InsufficientGas                Code = 30
	ContractSizeLimitExceeded      Code = 31
	LocalCallModificationException Code = 32
	ContractRevertExecuted         Code = 33
	ContractExecutionException     Code = 34
	InvalidReceivingNodeAccount    Code = 35
	MissingQueryHeader             Code = 36
	AccountUpdateFailed            Code = 37
	InvalidKeyEncoding             Code = 38
	NullSolidityAddress            Code = 39
	ContractUpdateFailed           Code = 40
	InvalidQueryHeader             Code = 41
	InvalidFeeSubmitted            Code = 42
	InvalidPayerSignature          Code = 43
	KeyNotProvided                 Code = 44
	InvalidExpirationTime          Code = 45
	NoWaclKey                      Code = 46
	FileContentEmpty               Code = 47
	InvalidAccountAmounts          Code = 48
	EmptyTransactionBody           Code = 49
	InvalidTransactionBody         Code = 50
	InvalidTopicID                 Code = 150
	InvalidTopicMessage            Code = 153
	MessageSizeTooLarge            Code = 160
)

type entry struct {
	name    string
	message string
}

// codes is the status→message table, the inverse of the precheck mapping.
var codes = map[Code]entry{
	OK:                             {"OK", "the transaction passed precheck"},
	InvalidTransaction:             {"INVALID_TRANSACTION", "the transaction failed basic validation"},
	PayerAccountNotFound:           {"PAYER_ACCOUNT_NOT_FOUND", "the payer account does not exist"},
	InvalidNodeAccount:             {"INVALID_NODE_ACCOUNT", "the node account provided does not match the node receiving the transaction"},
	TransactionExpired:             {"TRANSACTION_EXPIRED", "the valid start plus valid duration of the transaction has already passed"},
	InvalidTransactionStart:        {"INVALID_TRANSACTION_START", "the transaction start time is in the future or too far in the past"},
	InvalidTransactionDuration:     {"INVALID_TRANSACTION_DURATION", "the transaction valid duration is outside the accepted range"},
	InvalidSignature:               {"INVALID_SIGNATURE", "the transaction signature is not valid"},
	MemoTooLong:                    {"MEMO_TOO_LONG", "the transaction memo exceeds the maximum length"},
	InsufficientTxFee:              {"INSUFFICIENT_TX_FEE", "the transaction fee is not enough to cover the network fee"},
	InsufficientPayerBalance:       {"INSUFFICIENT_PAYER_BALANCE", "the payer account balance cannot cover the transaction fee"},
	DuplicateTransaction:           {"DUPLICATE_TRANSACTION", "a transaction with this ID has already been submitted"},
	Busy:                           {"BUSY", "the node is too busy to accept the transaction"},
	NotSupported:                   {"NOT_SUPPORTED", "the requested operation is not supported"},
	InvalidFileID:                  {"INVALID_FILE_ID", "the file ID is not valid"},
	InvalidAccountID:               {"INVALID_ACCOUNT_ID", "the account ID is not valid"},
	InvalidContractID:              {"INVALID_CONTRACT_ID", "the contract ID is not valid"},
	InvalidTransactionID:           {"INVALID_TRANSACTION_ID", "the transaction ID is not valid"},
	ReceiptNotFound:                {"RECEIPT_NOT_FOUND", "no receipt was found for the transaction ID"},
	RecordNotFound:                 {"RECORD_NOT_FOUND", "no record was found for the transaction ID"},
	InvalidSolidityID:              {"INVALID_SOLIDITY_ID", "the solidity ID is not valid"},
	Unknown:                        {"UNKNOWN", "the transaction has not yet reached consensus"},
	Success:                        {"SUCCESS", "the transaction succeeded"},
	FailInvalid:                    {"FAIL_INVALID", "the transaction failed for an unspecified reason"},
	FailFee:                        {"FAIL_FEE", "the transaction fee could not be charged"},
	FailBalance:                    {"FAIL_BALANCE", "the account balance is insufficient for the transaction"},
	KeyRequired:                    {"KEY_REQUIRED", "a key is required for this operation"},
	BadEncoding:                    {"BAD_ENCODING", "the transaction could not be decoded"},
	InsufficientAccountBalance:     {"INSUFFICIENT_ACCOUNT_BALANCE", "an account balance is insufficient for the transfer"},
	InvalidSolidityAddress:         {"INVALID_SOLIDITY_ADDRESS", "the solidity address is not valid"},
	InsufficientGas:                {"INSUFFICIENT_GAS", "not enough gas was supplied to execute the contract"},
	ContractSizeLimitExceeded:      {"CONTRACT_SIZE_LIMIT_EXCEEDED", "the contract exceeds the size limit"},
	LocalCallModificationException: {"LOCAL_CALL_MODIFICATION_EXCEPTION", "a local call attempted to modify state"},
	ContractRevertExecuted:         {"CONTRACT_REVERT_EXECUTED", "the contract executed a revert"},
	ContractExecutionException:     {"CONTRACT_EXECUTION_EXCEPTION", "the contract threw an exception during execution"},
	InvalidReceivingNodeAccount:    {"INVALID_RECEIVING_NODE_ACCOUNT", "the receiving node account is not valid"},
	MissingQueryHeader:             {"MISSING_QUERY_HEADER", "the query is missing its header"},
	AccountUpdateFailed:            {"ACCOUNT_UPDATE_FAILED", "the account update failed"},
	InvalidKeyEncoding:             {"INVALID_KEY_ENCODING", "the key encoding is not valid"},
	NullSolidityAddress:            {"NULL_SOLIDITY_ADDRESS", "the solidity address is null"},
	ContractUpdateFailed:           {"CONTRACT_UPDATE_FAILED", "the contract update failed"},
	InvalidQueryHeader:             {"INVALID_QUERY_HEADER", "the query header is not valid"},
	InvalidFeeSubmitted:            {"INVALID_FEE_SUBMITTED", "the submitted fee is not valid"},
	InvalidPayerSignature:          {"INVALID_PAYER_SIGNATURE", "the payer signature is not valid"},
	KeyNotProvided:                 {"KEY_NOT_PROVIDED", "a required key was not provided"},
	InvalidExpirationTime:          {"INVALID_EXPIRATION_TIME", "the expiration time is not valid"},
	NoWaclKey:                      {"NO_WACL_KEY", "the file has no write access key"},
	FileContentEmpty:               {"FILE_CONTENT_EMPTY", "the file content is empty"},
	InvalidAccountAmounts:          {"INVALID_ACCOUNT_AMOUNTS", "the transfer amounts do not sum to zero"},
	EmptyTransactionBody:           {"EMPTY_TRANSACTION_BODY", "the transaction body is empty"},
	InvalidTransactionBody:         {"INVALID_TRANSACTION_BODY", "the transaction body is not valid"},
	InvalidTopicID:                 {"INVALID_TOPIC_ID", "the topic ID is not valid"},
	InvalidTopicMessage:            {"INVALID_TOPIC_MESSAGE", "the topic message is not valid"},
	MessageSizeTooLarge:            {"MESSAGE_SIZE_TOO_LARGE", "the topic message exceeds the maximum size"},
}

// String returns the enum name of c.
func (c Code) String() string {
	if e, ok := codes[c]; ok {
		return e.name
	}
	return fmt.Sprintf("STATUS_%d", uint32(c))
}

// Message returns the human-readable text for c.
func Message(c Code) string {
	if e, ok := codes[c]; ok {
		return e.message
	}
	return fmt.Sprintf("unknown status code %d", uint32(c))
}
