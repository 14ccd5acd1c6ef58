package clients

// Message - элемент messages[] в каждом ответе Data API. Код "0" означает OK.
type Message struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type LoginInner struct {
	Token *string `json:"token"`
}

type LoginResponse struct {
	Response *LoginInner `json:"response"`
	Messages []Message   `json:"messages"`
}

func (r *LoginResponse) token() string {
	if r.Response == nil || r.Response.Token == nil {
		return ""
	}
	return *r.Response.Token
}

type DataInfo struct {
	Database         string `json:"database"`
	Layout           string `json:"layout"`
	Table            string `json:"table"`
	TotalRecordCount *int   `json:"totalRecordCount"`
	FoundCount       *int   `json:"foundCount"`
	ReturnedCount    *int   `json:"returnedCount"`
}

// Total: foundCount, иначе totalRecordCount, иначе -1 (неизвестно).
func (d *DataInfo) Total() int {
	switch {
	case d == nil:
		return -1
	case d.FoundCount != nil:
		return *d.FoundCount
	case d.TotalRecordCount != nil:
		return *d.TotalRecordCount
	}
	return -1
}

// Record.FieldData - поля как пришли: имя поля -> string, json.Number, []interface{}, nil ...
type Record struct {
	FieldData map[string]interface{} `json:"fieldData"`
	RecordID  string                 `json:"recordId"`
	ModID     string                 `json:"modId"`
}

type ListInner struct {
	Data     []Record  `json:"data"`
	DataInfo *DataInfo `json:"dataInfo"`
}

type ListResponse struct {
	Response *ListInner `json:"response"`
	Messages []Message  `json:"messages"`
}

func (r *ListResponse) records() []Record {
	if r.Response == nil {
		return nil
	}
	return r.Response.Data
}

func (r *ListResponse) dataInfo() *DataInfo {
	if r.Response == nil {
		return nil
	}
	return r.Response.DataInfo
}

// envelope - тело ошибки: нас интересуют только messages.
type envelope struct {
	Messages []Message `json:"messages"`
}
