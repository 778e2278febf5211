package bundle

// Schemas the import payload is checked against before decoding. Amounts
// accept both JSON numbers (legacy browser exports) and strings (decimal
// serialization).

const cardSchemaJSON = `{
  "$id": "corte://card",
  "type": "object",
  "required": ["id", "cutoffDay", "paymentDay", "limit"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "alias": {"type": "string"},
    "bank": {"type": "string"},
    "last4": {"type": "string"},
    "limit": {"type": ["number", "string"]},
    "cutoffDay": {"type": "integer", "minimum": 1, "maximum": 31},
    "paymentDay": {"type": "integer", "minimum": 1, "maximum": 31},
    "hasCashback": {"type": "boolean"},
    "cashbackPercentage": {"type": ["number", "string"]},
    "transactions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type", "date"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "type": {"enum": ["expense", "payment", "installment_purchase"]},
          "date": {"type": "string"},
          "description": {"type": "string"},
          "amount": {"type": ["number", "string"]},
          "relatedInstallmentId": {"type": "string"},
          "totalAmount": {"type": ["number", "string"]},
          "months": {"type": "integer"},
          "monthlyPayment": {"type": ["number", "string"]},
          "paidMonths": {"type": "integer"},
          "remainingAmount": {"type": ["number", "string"]}
        }
      }
    }
  }
}`

const envelopeSchemaJSON = `{
  "type": "object",
  "required": ["version", "cards"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "theme": {"type": "string"},
    "cards": {"type": "array", "items": {"$ref": "corte://card"}},
    "budget": {
      "type": ["object", "null"],
      "properties": {
        "totalAmount": {"type": ["number", "string"]},
        "rolloverOption": {"type": "string"},
        "startDate": {"type": "string"},
        "expenses": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["id", "amount", "date"],
            "properties": {
              "id": {"type": "string", "minLength": 1},
              "description": {"type": "string"},
              "amount": {"type": ["number", "string"]},
              "date": {"type": "string"}
            }
          }
        }
      }
    }
  }
}`

const legacySchemaJSON = `{
  "type": "array",
  "items": {"$ref": "corte://card"}
}`
