package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/padidoc-go-api/internal/models"
)

func TestStockHandlerAdjustAndLog(t *testing.T) {
	srv := newTestServer(t)
	srv.createUser(t, "operator", models.RoleOperator, true)
	token := srv.login(t, "operator@padidoc.com")

	resp, body := srv.do(t, http.MethodPost, "/api/v1/stok", token, map[string]interface{}{
		"jenis_item":    "Katul",
		"jumlah":        50,
		"batas_minimum": 40,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body.Message)

	var stock struct {
		ID        uint   `json:"id"`
		JenisItem string `json:"jenis_item"`
		Satuan    string `json:"satuan"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &stock))
	require.Equal(t, "katul", stock.JenisItem)
	require.Equal(t, models.DefaultStockUnit, stock.Satuan)

	resp, _ = srv.do(t, http.MethodPost, "/api/v1/stok", token, map[string]interface{}{"jenis_item": "katul"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	adjust := fmt.Sprintf("/api/v1/stok/%d/adjust", stock.ID)
	resp, _ = srv.do(t, http.MethodPost, adjust, token, map[string]interface{}{"jumlah": -60, "keterangan": "susut"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = srv.do(t, http.MethodPost, adjust, token, map[string]interface{}{"jumlah": "-15.5", "keterangan": "susut timbang"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body.Message)

	var change struct {
		Stok struct {
			Jumlah string `json:"jumlah"`
		} `json:"stok"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &change))
	require.Equal(t, "34.5", change.Stok.Jumlah)

	resp, _ = srv.do(t, http.MethodPut, fmt.Sprintf("/api/v1/stok/%d", stock.ID), token, map[string]interface{}{"lokasi": "Gudang Timur"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = srv.do(t, http.MethodGet, fmt.Sprintf("/api/v1/log-stok?stok_id=%d", stock.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var logs struct {
		Items []struct {
			JenisTransaksi string `json:"jenis_transaksi"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &logs))
	require.Len(t, logs.Items, 1)

	resp, _ = srv.do(t, http.MethodGet, "/api/v1/log-stok?stok_id=-1", token, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = srv.do(t, http.MethodGet, "/api/v1/stok/999", token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
