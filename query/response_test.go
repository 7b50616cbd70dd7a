package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := map[string]Shape{
		"clientlist":   ShapeList,
		"channellist":  ShapeList,
		"serverinfo":   ShapeInfo,
		"instanceinfo": ShapeInfo,
		"whoami":       ShapeInfo,
		"version":      ShapeInfo,
		"quit":         ShapePlain,
		"use":          ShapePlain,
		"login":        ShapePlain,
		"listener":     ShapePlain,
	}

	for command, want := range tests {
		assert.Equal(t, want, Classify(command), command)
	}
}

func TestMatchPattern(t *testing.T) {
	plain := MatchPattern(ShapePlain)
	assert.True(t, plain.MatchString("error id=0 msg=ok"))
	assert.True(t, plain.MatchString("clid=1\nerror id=0 msg=ok"))
	assert.False(t, plain.MatchString("x error id=0 msg=ok"))

	list := MatchPattern(ShapeList)
	assert.True(t, list.MatchString("x error id=0 msg=ok"))
	assert.Same(t, list, MatchPattern(ShapeInfo))
}

func TestCheck(t *testing.T) {
	err := Check("")
	require.Error(t, err)
	assert.EqualError(t, err, "response is nil")
	assert.True(t, ShouldRetry(err))

	err = Check(`error id=256 msg=command\snot\sfound`)
	require.Error(t, err)
	assert.EqualError(t, err, "command not found")
	assert.True(t, IsUnknownCommand(err))
	assert.True(t, IsProtocolError(err))
	assert.False(t, ShouldRetry(err))

	require.NoError(t, Check(`error id=2568 msg=insufficient\sclient\spermissions`))
	require.NoError(t, Check("error id=0 msg=ok"))
}

func TestParsePlain(t *testing.T) {
	ok, err := ParsePlain("error id=0 msg=ok")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ParsePlain("error id=0 msg=done\n")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParsePlain_Error(t *testing.T) {
	_, err := ParsePlain(`error id=520 msg=invalid\sloginname\sor\spassword`)
	require.Error(t, err)

	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 520, pe.ID)
	assert.Equal(t, "invalid loginname or password", pe.Message)
	assert.False(t, IsUnknownCommand(err))
	assert.True(t, ShouldRetry(err))
}

func TestParsePlain_ExtraStatusKeys(t *testing.T) {
	_, err := ParsePlain(`error id=2568 msg=insufficient\sclient\spermissions failed_permid=4`)

	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, map[string]string{"failed_permid": "4"}, pe.Extra)
}

func TestParseStatus_BareUnknownCommand(t *testing.T) {
	status, err := ParseStatus("error id=256")
	require.Error(t, err)
	assert.Equal(t, StatusUnknownCommand, status.ID)

	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	assert.True(t, IsUnknownCommand(err))
	assert.False(t, ShouldRetry(err))

	_, err = ParsePlain("error id=256\n")
	assert.True(t, IsUnknownCommand(err))
}

func TestParseStatus_Malformed(t *testing.T) {
	for _, line := range []string{"", "TS3", "error msg=ok", "error id=x msg=ok"} {
		_, err := ParseStatus(line)
		require.Error(t, err, line)

		var pe *ProtocolError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, -1, pe.ID)
	}
}

func TestParseInfo(t *testing.T) {
	raw := "serverinstance_database_version=23 serverinstance_filetransfer_port=30033\nerror id=0 msg=ok\n"

	record, err := ParseInfo(raw)
	require.NoError(t, err)
	assert.Equal(t, Record{
		"serverinstance_database_version":  int64(23),
		"serverinstance_filetransfer_port": int64(30033),
	}, record)
}

func TestParseInfo_BareKey(t *testing.T) {
	raw := "virtualserver_ip virtualserver_weblist_enabled=1 virtualserver_ask_for_privilegekey=0\nerror id=0 msg=ok"

	record, err := ParseInfo(raw)
	require.NoError(t, err)
	assert.True(t, record.Has("virtualserver_ip"))
	assert.Nil(t, record["virtualserver_ip"])

	n, ok := record.Int("virtualserver_weblist_enabled")
	assert.True(t, ok)
	assert.Equal(t, int64(1), n)
}

func TestParseInfo_ServerLineEndings(t *testing.T) {
	raw := "version=3.0.0-alpha4 build=9155 platform=Linux\n\rerror id=0 msg=ok\n\r"

	record, err := ParseInfo(raw)
	require.NoError(t, err)
	assert.Equal(t, "3.0.0-alpha4", record["version"])
	assert.Equal(t, int64(9155), record["build"])
	assert.Equal(t, "Linux", record["platform"])
}

func TestParseInfo_Error(t *testing.T) {
	_, err := ParseInfo(`error id=1024 msg=invalid\sserverID`)
	require.Error(t, err)
	assert.EqualError(t, err, "invalid serverID")
}

func TestParseList(t *testing.T) {
	records, err := ParseList("clid=1 nickname=a|clid=2 nickname=b\nerror id=0 msg=ok")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Record{"clid": int64(1), "nickname": "a"}, records[0])
	assert.Equal(t, Record{"clid": int64(2), "nickname": "b"}, records[1])
}

func TestParseList_Escaped(t *testing.T) {
	raw := `clid=1 cid=1 client_database_id=2 client_nickname=mario client_type=0|clid=5 cid=1 client_database_id=1 client_nickname=serveradmin\sfrom\s127.0.0.1:10011 client_type=1` +
		"\nerror id=0 msg=ok\n"

	records, err := ParseList(raw)
	require.NoError(t, err)
	require.Len(t, records, 2)

	nick, _ := records[0].String("client_nickname")
	assert.Equal(t, "mario", nick)
	nick, _ = records[1].String("client_nickname")
	assert.Equal(t, "serveradmin from 127.0.0.1:10011", nick)
}

func TestParseList_StatusOnly(t *testing.T) {
	records, err := ParseList("error id=0 msg=ok")
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = ParseList(`error id=1281 msg=database\sempty\sresult\sset`)
	require.Error(t, err)
}

func TestParseList_UnknownCommand(t *testing.T) {
	_, err := ParseList(`error id=256 msg=command\snot\sfound`)
	assert.True(t, IsUnknownCommand(err))
}

func TestParse_PlainWithData(t *testing.T) {
	res, err := Parse(ShapePlain, "clid=5 client_nickname=bob\nerror id=0 msg=ok")
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, Record{"clid": int64(5), "client_nickname": "bob"}, res.Record)
}

func TestParseRecord_Coercion(t *testing.T) {
	record := ParseRecord(`i=42 f=3.14 s=abc v=1.2.3 neg=-1 e= big=99999999999999999999 eq=a=b`)

	assert.Equal(t, int64(42), record["i"])
	assert.Equal(t, 3.14, record["f"])
	assert.Equal(t, "abc", record["s"])
	assert.Equal(t, "1.2.3", record["v"])
	assert.Equal(t, "-1", record["neg"])
	assert.Equal(t, "", record["e"])
	assert.Equal(t, "99999999999999999999", record["big"])
	assert.Equal(t, "a=b", record["eq"])

	f, ok := record.Float("i")
	assert.True(t, ok)
	assert.Equal(t, 42.0, f)

	s, ok := record.String("i")
	assert.True(t, ok)
	assert.Equal(t, "42", s)

	_, ok = record.Int("s")
	assert.False(t, ok)
}
