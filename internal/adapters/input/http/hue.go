package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/amimof/huego"
	"github.com/go-chi/chi/v5"
	"roborock-cleaning-panel/internal/domain/model"
)

const (
	hueLightType    = "Dimmable light"
	hueModelID      = "LWB010"
	hueManufacturer = "Philips"
)

func (s *Server) registerHueRoutes(r chi.Router) {
	r.Get("/description.xml", s.handleDescription)
	r.Post("/api", s.handleRegister)
	r.Post("/api/", s.handleRegister)
	r.Get("/api/{user}", s.handleFullState)
	r.Get("/api/{user}/lights", s.handleGetLights)
	r.Get("/api/{user}/lights/{id}", s.handleGetLight)
	r.Put("/api/{user}/lights/{id}/state", s.handleSetLightState)
}

func (s *Server) handleDescription(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8" ?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
<specVersion>
<major>1</major>
<minor>0</minor>
</specVersion>
<URLBase>http://%s:%d/</URLBase>
<device>
<deviceType>urn:schemas-upnp-org:device:Basic:1</deviceType>
<friendlyName>Philips hue (%s)</friendlyName>
<manufacturer>Royal Philips Electronics</manufacturer>
<manufacturerURL>http://www.philips.com</manufacturerURL>
<modelDescription>Philips hue Personal Wireless Lighting</modelDescription>
<modelName>Philips hue bridge 2012</modelName>
<modelNumber>929000226503</modelNumber>
<modelURL>http://www.meethue.com</modelURL>
<serialNumber>001788102201</serialNumber>
<UDN>uuid:2f402f80-da50-11e1-9b23-001788102201</UDN>
<presentationURL>panel</presentationURL>
</device>
</root>`, s.ip, s.port, s.ip)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []map[string]interface{}{
		{"success": map[string]string{"username": "admin"}},
	})
}

func (s *Server) handleFullState(w http.ResponseWriter, r *http.Request) {
	lights, err := s.lights(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lights": lights,
		"groups": map[string]interface{}{},
		"config": map[string]interface{}{
			"name":       "Philips hue",
			"swversion":  "01003542",
			"apiversion": "1.11.0",
			"mac":        "00:17:88:10:22:01",
			"bridgeid":   "001788FFFE102201",
			"modelid":    "BSB001",
		},
	})
}

func (s *Server) handleGetLights(w http.ResponseWriter, r *http.Request) {
	lights, err := s.lights(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, lights)
}

func (s *Server) handleGetLight(w http.ResponseWriter, r *http.Request) {
	device, err := s.bridge.GetDevice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, toLight(device))
}

func (s *Server) handleSetLightState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var stateUpdate map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&stateUpdate); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := s.bridge.UpdateDeviceState(r.Context(), id, stateUpdate); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	resp := []map[string]interface{}{}
	for k, v := range stateUpdate {
		resp = append(resp, map[string]interface{}{
			"success": map[string]interface{}{
				fmt.Sprintf("/lights/%s/state/%s", id, k): v,
			},
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) lights(r *http.Request) (map[string]*huego.Light, error) {
	devices, err := s.bridge.GetDevices(r.Context())
	if err != nil {
		return nil, err
	}
	lights := make(map[string]*huego.Light, len(devices))
	for _, d := range devices {
		lights[d.ID] = toLight(d)
	}
	return lights, nil
}

func toLight(d *model.Device) *huego.Light {
	return &huego.Light{
		Name:             d.Name,
		Type:             hueLightType,
		State:            d.State,
		ModelID:          hueModelID,
		UniqueID:         d.ID,
		ManufacturerName: hueManufacturer,
	}
}
