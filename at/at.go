package at

const (
	// Terminal Control
	CRLF   = "\r\n"
	Prompt = ">"

	// Response Codes
	OK       = "OK"
	ERROR    = "ERROR"
	FAIL     = "FAIL"
	SendOK   = "SEND OK"
	SendFail = "SEND FAIL"
	// Busy replies reject the command; it was not executed
	BusyP = "busy p..."
	BusyS = "busy s..."

	// URCs (Active Message Reports)
	UrcReady           = "ready"
	UrcWifiConnected   = "WIFI CONNECTED"
	UrcWifiGotIP       = "WIFI GOT IP"
	UrcWifiDisconnect  = "WIFI DISCONNECT"
	UrcStaConnected    = "+STA_CONNECTED:"
	UrcStaDisconnected = "+STA_DISCONNECTED:"
	UrcDistStaIP       = "+DIST_STA_IP:"

	// Commands
	CmdAt        = "AT"
	CmdEchoOff   = "ATE0"
	CmdReset     = "AT+RST"
	CmdSysLog    = "AT+SYSLOG=1"
	CmdQuitAP    = "AT+CWQAP"
	CmdListAP    = "AT+CWLAP"
	CmdGetMode   = "AT+CWMODE?"
	CmdStaIP     = "AT+CIPSTA?"
	CmdStaMAC    = "AT+CIPSTAMAC?"
	CmdGetSleep  = "AT+SLEEP?"
	CmdSetMode   = "AT+CWMODE=%d"
	CmdJoinAP    = "AT+CWJAP=%s,%s"
	CmdConfAP    = "AT+CWSAP=%s,%s,%d,%d"
	CmdDomain    = "AT+CIPDOMAIN=%s"
	CmdPing      = "AT+PING=%s"
	CmdSetDNS    = "AT+CIPDNS=1,%s"
	CmdSetSNTP   = "AT+CIPSNTPCFG=1,%d,%s"
	CmdSetSleep  = "AT+SLEEP=%d"
	CmdEraseSect = "AT+SYSFLASH=0,%s,%d,%d"
	CmdWriteSect = "AT+SYSFLASH=1,%s,%d,%d"

	// Response prefixes
	RespListAP  = "+CWLAP:"
	RespMode    = "+CWMODE:"
	RespStaIP   = "+CIPSTA:"
	RespStaMAC  = "+CIPSTAMAC:"
	RespDomain  = "+CIPDOMAIN:"
	RespPing    = "+PING:"
	RespSleep   = "+SLEEP:"
	RespJoinErr = "+CWJAP:"
)

type ResponseType int

const (
	TypeFinal  ResponseType = iota // OK, ERROR, FAIL
	TypeURC                        // Asynchronous notifications
	TypeData                       // Intermediate command output (+CWLAP: ...)
	TypePrompt                     // Raw data input prompt
)
